package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/slovnyk/slovnykd/internal/command"
	"github.com/slovnyk/slovnykd/internal/config"
	"github.com/slovnyk/slovnykd/internal/engine"
	"github.com/slovnyk/slovnykd/internal/importer"
	"github.com/slovnyk/slovnykd/internal/netx"
	"github.com/slovnyk/slovnykd/internal/observability"
	"github.com/slovnyk/slovnykd/internal/overlay"
	"github.com/slovnyk/slovnykd/internal/store"
)

func main() {
	app := &cli.App{
		Name:           "slovnykd",
		Usage:          "Bilingual dictionary lookup service.",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand(),
			importCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dictionary TCP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to JSON config `FILE`",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return serve(cfg)
		},
	}
}

func serve(cfg config.Config) error {
	log := observability.New(cfg.Log.Level)

	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	if n, err := st.Count(); err != nil {
		log.Error("dictionary size check failed", "error", err)
	} else if n == 0 {
		log.Warn("dictionary is empty", "db", cfg.DBPath)
	} else {
		log.Info("dictionary loaded", "db", cfg.DBPath, "entries", n)
	}

	ov := overlay.New(cfg.OverlayPath)
	if err := ov.Load(); err != nil {
		log.Warn("overlay load failed", "path", cfg.OverlayPath, "error", err)
	} else if ov.Len() > 0 {
		log.Info("overlay loaded", "path", cfg.OverlayPath, "words", ov.Len())
	}

	eng := engine.New(st, log)
	disp := command.NewDispatcher(eng, ov, log,
		command.NewLanguage(cfg.Source.Code, cfg.Source.Name, cfg.Source.NativeName),
		command.NewLanguage(cfg.Target.Code, cfg.Target.Name, cfg.Target.NativeName))

	srv := netx.NewServer(cfg.Listen, disp, log, cfg.ReadTimeout, cfg.WriteTimeout)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Info("shutting down")
		_ = srv.Close()
	}()

	log.Info("server listening", "addr", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	if err := ov.Save(); err != nil {
		log.Error("overlay flush failed", "path", cfg.OverlayPath, "error", err)
	}
	log.Info("server stopped")
	return nil
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import dictionary files into the database",
		ArgsUsage: "FILE [FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database `FILE`",
				Value: "eng_ukr_dictionary.db",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "input format: tsv, json or stardict",
				Value:   "tsv",
			},
			&cli.StringFlag{
				Name:  "delimiter",
				Usage: "field delimiter for tsv input",
				Value: "\t",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "source charset for tsv input (e.g. windows-1251)",
			},
		},
		Action: runImport,
	}
}

func runImport(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("import: no input files")
	}
	st, err := store.OpenSQLite(c.String("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	format := c.String("format")
	for _, path := range c.Args().Slice() {
		var stats importer.Stats
		switch format {
		case "tsv":
			stats, err = importer.FromDelimited(st, path, c.String("delimiter"), c.String("encoding"))
		case "json":
			stats, err = importer.FromJSON(st, path)
		case "stardict":
			stats, err = importer.FromStarDict(st, path)
		default:
			return fmt.Errorf("import: unknown format %q", format)
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		fmt.Printf("%s: %d imported, %d skipped\n", path, stats.Inserted, stats.Skipped)
	}
	return nil
}
