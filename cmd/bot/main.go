package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/eliseohh/geolensbot/internal/bot"
	"github.com/eliseohh/geolensbot/internal/config"
	"github.com/eliseohh/geolensbot/internal/history"
	"github.com/eliseohh/geolensbot/internal/observability"
	"github.com/eliseohh/geolensbot/internal/vision"
)

func main() {
	log := observability.Logger()

	// 1. Configuration (fail fast)
	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	// 2. History DB
	db, err := history.NewDB(cfg.History.Path)
	if err != nil {
		log.Error("history db open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Error("schema init failed", "error", err)
		os.Exit(1)
	}

	// 3. Vision client
	vc := vision.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.RequestTimeout)
	vc.MaxRetries = cfg.Gemini.MaxRetries

	// 4. Telegram session
	b, err := bot.New(cfg, db, vc)
	if err != nil {
		log.Error("bot init failed", "error", err)
		os.Exit(1)
	}

	// 5. Run until the container runtime tells us to stop
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sigs
		log.Info("shutting down", "signal", s.String())
		b.Stop()
	}()

	b.Start()
}
