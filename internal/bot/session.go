package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eliseohh/geolensbot/internal/config"
	"github.com/eliseohh/geolensbot/internal/history"
	"github.com/eliseohh/geolensbot/internal/observability"
	"github.com/eliseohh/geolensbot/internal/vision"
	tele "gopkg.in/telebot.v3"
)

type Bot struct {
	api    *tele.Bot
	db     *history.DB
	vision *vision.Client
	cfg    *config.Config
	log    *slog.Logger
}

// New establishes the Telegram session and wires the handlers.
// Transient connect failures are retried with exponential backoff up to
// the configured budget; a rejected token fails permanently.
func New(cfg *config.Config, db *history.DB, vc *vision.Client) (*Bot, error) {
	log := observability.Logger()

	pref := tele.Settings{
		Token:  cfg.Telegram.Token,
		URL:    cfg.Telegram.APIURL,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.PollTimeout},
		OnError: func(err error, c tele.Context) {
			log.Error("poller error", "error", err)
		},
	}

	var api *tele.Bot
	var err error
	backoff := cfg.Telegram.ConnectBackoff
	for attempt := 0; ; attempt++ {
		api, err = tele.NewBot(pref)
		if err == nil {
			break
		}
		if errors.Is(err, tele.ErrUnauthorized) {
			return nil, fmt.Errorf("telegram rejected token: %w", err)
		}
		if attempt >= cfg.Telegram.ConnectRetries {
			return nil, fmt.Errorf("telegram unreachable after %d attempts: %w", attempt+1, err)
		}
		log.Warn("telegram connect failed, retrying", "attempt", attempt+1, "backoff", backoff, "error", err)
		time.Sleep(backoff)
		backoff *= 2
	}

	bot := &Bot{api: api, db: db, vision: vc, cfg: cfg, log: log}
	bot.register()
	return bot, nil
}

func (b *Bot) Start() {
	b.log.Info("bot online", "username", b.api.Me.Username)
	b.api.Start()
}

// Stop halts the poller; Start returns once in-flight updates drain.
func (b *Bot) Stop() {
	b.api.Stop()
}
