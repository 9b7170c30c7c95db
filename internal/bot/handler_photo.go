package bot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/eliseohh/geolensbot/internal/history"
	"github.com/eliseohh/geolensbot/internal/render"
	"github.com/eliseohh/geolensbot/internal/vision"
	tele "gopkg.in/telebot.v3"
)

const (
	lookingText      = "👀 Смотрю\\.\\.\\."
	fallbackNoData   = "Не удалось распознать данные."
	fallbackNoModel  = "Не удалось получить ответ от нейросети. Попробуйте позже."
	fallbackInternal = "Произошла внутренняя ошибка. Попробуйте позже."
)

// handlePhoto runs the full flow for one image: placeholder reply,
// download, model analysis, then an in-place edit with the verdict.
func (b *Bot) handlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return c.Send("Пожалуйста, отправьте изображение.")
	}

	placeholder, err := b.api.Send(msg.Chat, lookingText, &tele.SendOptions{
		ReplyTo:   msg,
		ParseMode: tele.ModeMarkdownV2,
	})
	if err != nil {
		return fmt.Errorf("send placeholder: %w", err)
	}

	// Telegram already hands us the largest size in Photo.
	rc, err := b.api.File(&msg.Photo.File)
	if err != nil {
		return b.editFailure(placeholder, fallbackInternal, fmt.Errorf("download photo: %w", err))
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return b.editFailure(placeholder, fallbackInternal, fmt.Errorf("read photo: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.Gemini.RequestTimeout)
	defer cancel()

	analysis, err := b.vision.Analyze(ctx, data, "image/jpeg")
	if err != nil {
		if errors.Is(err, vision.ErrUnauthorized) {
			b.log.Error("gemini credentials rejected", "error", err)
		}
		return b.editFailure(placeholder, fallbackNoModel, err)
	}

	text := render.Verdict(analysis)
	if text == "" {
		text = render.EscapeMarkdownV2(fallbackNoData)
	}

	opts := []interface{}{&tele.SendOptions{ParseMode: tele.ModeMarkdownV2}}
	if analysis.GPS != nil {
		opts = append(opts, render.MapKeyboard(analysis.GPS.Latitude, analysis.GPS.Longitude))
	}
	if _, err := b.api.Edit(placeholder, text, opts...); err != nil {
		return fmt.Errorf("edit verdict: %w", err)
	}

	entry := history.Entry{
		ChatID:  msg.Chat.ID,
		Kind:    analysis.Kind(),
		Promo:   analysis.Promo,
		Address: analysis.Address,
	}
	if analysis.GPS != nil {
		entry.Latitude = &analysis.GPS.Latitude
		entry.Longitude = &analysis.GPS.Longitude
	}
	if err := b.db.Record(entry); err != nil {
		// History is best effort; the user already has their reply.
		b.log.Warn("history record failed", "error", err)
	}
	return nil
}

func (b *Bot) editFailure(placeholder *tele.Message, userText string, cause error) error {
	if _, err := b.api.Edit(placeholder, render.EscapeMarkdownV2(userText), &tele.SendOptions{
		ParseMode: tele.ModeMarkdownV2,
	}); err != nil {
		return fmt.Errorf("edit failure notice: %w (cause: %v)", err, cause)
	}
	return cause
}
