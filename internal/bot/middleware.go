// Package bot provides the Telegram bot initialization and message routing.
package bot

import (
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// LoggingMiddleware logs every handled update with timing information.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			evt := log.Debug()
			if err != nil {
				evt = log.Error().Err(err)
			}
			if sender := c.Sender(); sender != nil {
				evt = evt.Int64("user_id", sender.ID)
			}
			if chat := c.Chat(); chat != nil {
				evt = evt.Int64("chat_id", chat.ID).Str("chat_type", string(chat.Type))
			}
			evt.Dur("took", time.Since(start)).Str("text", c.Text()).Msg("Update handled")

			return err
		}
	}
}
