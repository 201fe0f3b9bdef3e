package main

import (
	"context"
	_ "embed"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"pagevault/pkg/config"
	"pagevault/pkg/log"
	"pagevault/pkg/server"
)

//go:embed VERSION
var Version string

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	baseDir := flag.String("base", "", "Base data directory (overrides config)")
	listen := flag.String("listen", "", "Listen address (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}
	if *baseDir != "" {
		cfg.BaseDir = *baseDir
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log.Configure(log.Options{Level: level, JSON: cfg.JSONLogs})

	mgr, closeDeps, err := buildManager(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("base_dir", cfg.BaseDir).Msg("Failed to initialize")
	}

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)

	srv := server.New(mgr, strings.TrimSpace(Version))
	serveErr := srv.Start(cfg.Listen)

	if err := mgr.Stop(); err != nil {
		log.Warn().Err(err).Msg("Render pool stopped with error")
	}
	cancel()
	closeDeps()

	if serveErr != nil {
		log.Error().Err(serveErr).Msg("Server failed")
		os.Exit(1)
	}
	os.Exit(0)
}
