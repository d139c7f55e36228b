// Package handler provides Telegram bot command handlers.
package handler

import (
	tele "gopkg.in/telebot.v3"
)

// resolveTarget extracts the target user from a message: the first user
// carried by a mention entity, or the sender of the replied-to message.
// Returns 0 when no target can be resolved.
func resolveTarget(c tele.Context) int64 {
	msg := c.Message()
	if msg == nil {
		return 0
	}

	for _, entity := range msg.Entities {
		if (entity.Type == tele.EntityMention || entity.Type == tele.EntityTMention) && entity.User != nil {
			return entity.User.ID
		}
	}

	if msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		return msg.ReplyTo.Sender.ID
	}

	return 0
}
