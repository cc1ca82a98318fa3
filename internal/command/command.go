// Package command parses delimited command lines and routes them to the
// search engine and the overlay cache, producing the response string sent
// back to the client.
package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/slovnyk/slovnykd/internal/cache"
	"github.com/slovnyk/slovnykd/internal/engine"
	"github.com/slovnyk/slovnykd/internal/markup"
	"github.com/slovnyk/slovnykd/internal/observability"
	"github.com/slovnyk/slovnykd/internal/overlay"
)

const UnknownCommand = "UNKNOWN_COMMAND"

// Language identifies one side of the dictionary pair. Purely descriptive.
type Language struct {
	Code       string
	Name       string
	NativeName string
}

func NewLanguage(code, name, nativeName string) Language {
	if nativeName == "" {
		nativeName = name
	}
	return Language{Code: code, Name: name, NativeName: nativeName}
}

func (l Language) String() string {
	return l.Code + " (" + l.Name + ")"
}

type Dispatcher struct {
	engine  *engine.Engine
	overlay *overlay.Cache
	results *cache.Cache
	log     *observability.Logger
	source  Language
	target  Language
}

func NewDispatcher(e *engine.Engine, ov *overlay.Cache, log *observability.Logger, source, target Language) *Dispatcher {
	return &Dispatcher{
		engine:  e,
		overlay: ov,
		results: cache.New(1024, 5*time.Minute),
		log:     log,
		source:  source,
		target:  target,
	}
}

// Dispatch executes one command line and returns the response string. The
// line is split on '|' into verb and up to two arguments; missing fields are
// empty strings, surplus fields are ignored.
func (d *Dispatcher) Dispatch(line string) string {
	verb, arg1, arg2 := splitCommand(line)
	observability.RecordCommand(verb)

	var resp string
	switch verb {
	case "TRANSLATE":
		resp = d.translate(arg1)
	case "ADD", "ADD_WORD":
		resp = d.add(arg1, arg2)
	case "UPDATE_WORD":
		resp = d.update(arg1, arg2)
	case "DELETE_WORD":
		resp = d.remove(arg1)
	case "EXISTS":
		if d.engine.Exists(arg1) {
			resp = "YES"
		} else {
			resp = "NO"
		}
	case "GET_RANDOM":
		resp = d.engine.Random()
	case "GET_SIZE":
		resp = strconv.FormatInt(d.engine.Size(), 10)
	case "GET_LANGUAGES":
		resp = d.source.Code + "|" + d.target.Code
	case "PING":
		resp = "PONG"
	default:
		observability.RecordUnknown()
		resp = UnknownCommand
	}

	if strings.HasPrefix(resp, "Error|") || resp == engine.DatabaseError || resp == UnknownCommand {
		observability.RecordError()
	}
	return resp
}

func splitCommand(line string) (verb, arg1, arg2 string) {
	parts := strings.Split(line, "|")
	if len(parts) > 0 {
		verb = parts[0]
	}
	if len(parts) > 1 {
		arg1 = parts[1]
	}
	if len(parts) > 2 {
		arg2 = parts[2]
	}
	return verb, arg1, arg2
}

func (d *Dispatcher) translate(query string) string {
	if def, ok := d.overlay.Get(query); ok {
		return markup.Normalize(def)
	}
	if resp, ok := d.results.Get(query); ok {
		return resp
	}
	resp := d.engine.Search(query)
	if resp != engine.DatabaseError {
		d.results.Set(query, resp)
	}
	return resp
}

func (d *Dispatcher) add(word, definition string) string {
	if word == "" {
		return "Error|Headword cannot be empty"
	}
	if definition == "" {
		return "Error|Definition cannot be empty"
	}
	if _, ok := d.overlay.Get(word); ok {
		return "Error|Word already exists"
	}
	if found := d.engine.Search(word); found != "" &&
		found != engine.NotFound &&
		found != engine.DatabaseError &&
		found != engine.MaxRedirectDepth {
		return "Error|Word already exists"
	}
	if d.engine.Exists(word) {
		return "Error|Word already exists"
	}

	d.overlay.Set(word, definition)
	if err := d.engine.Add(word, definition); err != nil {
		// Keep the overlay and the store in agreement: undo the overlay
		// insert rather than leaving an orphaned entry.
		d.overlay.Delete(word)
		d.log.Error("persist failed", "word", word, "error", err)
		return "Error|Failed to persist to database"
	}
	d.saveOverlay()
	d.results.Purge()
	d.log.Info("word added", "word", word)
	return "Success|Word added"
}

func (d *Dispatcher) update(word, definition string) string {
	if word == "" || definition == "" {
		return "Error|Headword and definition required"
	}
	if _, ok := d.overlay.Get(word); ok {
		d.overlay.Set(word, definition)
		d.saveOverlay()
		d.results.Purge()
		d.log.Info("word updated", "word", word, "source", "overlay")
		return "Success|Word updated."
	}
	if err := d.engine.Update(word, definition); err != nil {
		d.log.Warn("update failed", "word", word, "error", err)
		return "Error|Word not found."
	}
	d.results.Purge()
	d.log.Info("word updated", "word", word, "source", "store")
	return "Success|Word updated: " + word
}

func (d *Dispatcher) remove(word string) string {
	if word == "" {
		return "Error|Headword required"
	}
	if d.overlay.Delete(word) {
		d.saveOverlay()
		d.results.Purge()
		d.log.Info("word deleted", "word", word, "source", "overlay")
		return "Success|Word deleted."
	}
	if err := d.engine.Delete(word); err != nil {
		d.log.Warn("delete failed", "word", word, "error", err)
		return "Error|Word not found."
	}
	d.results.Purge()
	d.log.Info("word deleted", "word", word, "source", "store")
	return "Success|Word deleted: " + word
}

func (d *Dispatcher) saveOverlay() {
	if err := d.overlay.Save(); err != nil {
		d.log.Warn("overlay save failed", "error", err)
	}
}
