package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stratify/internal/cache/memory"
	"stratify/internal/config"
	"stratify/internal/server"
)

var serveFlags struct {
	port    string
	offline bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the analysis pipeline, the five-whys coach and the SWOT
bridge over HTTP. Providers and tunables come from .env, the optional
stratify.yaml and environment overrides.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.port, "port", "", "Listen address (default: configured port)")
	f.BoolVar(&serveFlags.offline, "offline", false, "Use the deterministic fake LLM client")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveFlags.port != "" {
		cfg.Port = serveFlags.port
		if !strings.HasPrefix(cfg.Port, ":") && !strings.Contains(cfg.Port, ":") {
			cfg.Port = ":" + cfg.Port
		}
	}
	if serveFlags.offline {
		cfg.LLM.Offline = true
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fb, err := buildFallback(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer fb.Close()

	store := memory.New(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
	srv := server.New(cfg, fb, store, logger)

	logger.Info("listening", zap.String("port", cfg.Port), zap.Bool("offline", cfg.LLM.Offline))
	return srv.Run()
}
