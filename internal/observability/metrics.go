package observability

import "expvar"

var (
	CommandsTotal   = expvar.NewInt("commands_total")
	CommandErrors   = expvar.NewInt("command_errors")
	UnknownCommands = expvar.NewInt("unknown_commands")
	commandsByVerb  = expvar.NewMap("commands_by_verb")
)

func RecordCommand(verb string) {
	CommandsTotal.Add(1)
	if verb != "" {
		commandsByVerb.Add(verb, 1)
	}
}

func RecordError() {
	CommandErrors.Add(1)
}

func RecordUnknown() {
	UnknownCommands.Add(1)
}
