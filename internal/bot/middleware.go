package bot

import (
	"fmt"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"
)

// withRequestLog tags every update with a request_id and contains
// handler failures: one bad event is logged and dropped, it never
// stops the update loop.
func (b *Bot) withRequestLog(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		log := b.log.With(
			"request_id", uuid.NewString(),
			"update_id", c.Update().ID,
		)

		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panic", "panic", fmt.Sprint(r))
			}
		}()

		if err := next(c); err != nil {
			log.Error("handler failed", "error", err)
		}
		return nil
	}
}
