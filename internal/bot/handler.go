package bot

import (
	tele "gopkg.in/telebot.v3"
)

const welcomeText = "Привет! Отправь мне картинку с GPS-координатами, адресом или промокодом, и я ее проанализирую."

func (b *Bot) register() {
	b.api.Use(b.withRequestLog)

	// Root Commands
	b.api.Handle("/start", b.handleStart)
	b.api.Handle("/ping", b.handlePing)
	b.api.Handle("/status", b.handleStatus)

	// Media
	b.api.Handle(tele.OnPhoto, b.handlePhoto)

	// Catch-all for plain text
	b.api.Handle(tele.OnText, b.handleUnknown)
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(welcomeText)
}

// Liveness check.
func (b *Bot) handlePing(c tele.Context) error {
	return c.Send("pong")
}

func (b *Bot) handleUnknown(c tele.Context) error {
	return c.Send("Пожалуйста, отправьте изображение.")
}
