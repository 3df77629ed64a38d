// Dirt is a tiny role-playing game: a royal intro letter, free-text
// conversations with the court, and menu battles on the road.
// Usage: dirt [--version] [--plain] [--script <file>] [--config <file>] [content_dir]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dirt/cli"
	"github.com/nathoo/dirt/config"
	"github.com/nathoo/dirt/engine"
	"github.com/nathoo/dirt/engine/assets"
	"github.com/nathoo/dirt/loader"
	"github.com/nathoo/dirt/logging"
	"github.com/nathoo/dirt/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: dirt [--version] [--plain] [--script <file>] [--config <file>] [content_dir]"

func main() {
	plain := false
	var contentDir, scriptFile, configFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("dirt %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--script", "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a file path\n", args[i])
				os.Exit(1)
			}
			if args[i] == "--script" {
				scriptFile = args[i+1]
			} else {
				configFile = args[i+1]
			}
			i++
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}
	if contentDir == "" {
		contentDir = "content"
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// The TUI owns the terminal; without a log file, stay quiet.
	if cfg.Logging.File == "" && !plain && scriptFile == "" && isTerminal() {
		log = logging.Discard()
	}

	defs, err := loader.Load(contentDir,
		loader.WithLogger(log.WithField("component", "loader")),
		loader.WithScripts(engine.ScriptIDs()...),
		loader.WithOpponents(engine.OpponentIDs()...),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := engine.Options{
		SayTicks:      cfg.SayTicks,
		BubbleTicks:   cfg.BubbleTicks,
		EncounterOdds: cfg.EncounterOdds,
		Seed:          seed,
		Logger:        log.WithField("component", "engine"),
	}
	if len(cfg.AssetDirs) > 0 {
		opts.Assets = assets.NewCache(assets.NewDirCatalog(cfg.AssetDirs...))
	}

	g, err := engine.New(defs, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{"content": contentDir, "seed": seed}).Info("game started")

	saveDir := cfg.SavePath()

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		printBanner(g)
		c := cli.New(g)
		c.In = f
		c.SaveDir = saveDir
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(g)
		c := cli.New(g)
		c.SaveDir = saveDir
		c.Run()
		return
	}

	if err := tui.Run(g, cfg.FrameRate, saveDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(g *engine.Game) {
	def := g.Defs().Game
	fmt.Printf("%s v%s by %s\n\n", def.Title, def.Version, def.Author)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
