// Package main provides the cinedb command line entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/cinedb/internal/catalog"
	"github.com/thebtf/cinedb/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "Settings file (default ~/.cinedb/settings.json)")
	dbPath := flag.String("db", "", "Database file (overrides settings)")
	backend := flag.String("backend", "", "Storage backend: mapper or gorm (overrides settings)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = usage
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	config.Set(cfg)
	setLogLevel(cfg.LogLevel)

	log.Debug().Str("version", Version).Str("backend", cfg.Backend).Msg("Starting cinedb")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Open(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open catalog")
	}

	app := &app{catalog: cat, cfg: cfg, out: os.Stdout}
	err = app.run(ctx, flag.Args())
	if cerr := cat.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("Failed to close catalog")
	}
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: cinedb [flags] <command> [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-32s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}
