// Package main is the entry point for tessera.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/tessera/internal/app"
	"github.com/dshills/tessera/internal/config"
	"github.com/dshills/tessera/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Signals end the run the same way a quit key does.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var (
		scenePath   string
		watch       bool
		logLevel    string
		logFile     string
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&scenePath, "scene", "", "Lua scene script to run instead of the demo")
	flag.StringVar(&scenePath, "s", "", "Lua scene script (shorthand)")
	flag.BoolVar(&watch, "watch", false, "Reload the scene when its file changes")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Tessera - layered character-grid compositor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tessera [options] [scene.lua]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: q, Esc or Ctrl-C quit; Ctrl-L redraws.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tessera                       Show the built-in layers demo\n")
		fmt.Fprintf(os.Stderr, "  tessera -watch scene.lua      Run a scene and reload it on save\n")
		fmt.Fprintf(os.Stderr, "  tessera -c tessera.toml       Use a configuration file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Tessera %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if scenePath == "" && flag.NArg() > 0 {
		scenePath = flag.Arg(0)
	}

	// Only flags given on the command line override the file and environment.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if scenePath != "" {
		opts.Overrides = append(opts.Overrides, config.WithScene(scenePath))
	}
	if set["watch"] {
		opts.Overrides = append(opts.Overrides, config.WithWatch(watch))
	}
	if set["log-level"] {
		opts.Overrides = append(opts.Overrides, config.WithLogLevel(logLevel))
	}
	if set["log-file"] {
		opts.Overrides = append(opts.Overrides, config.WithLogFile(logFile))
	}

	return opts
}
