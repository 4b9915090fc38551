package bot

import (
	"context"

	"library-service-be/internal/pkg/logger"
	"library-service-be/pkg/events"
)

// DurableName identifies the bot's JetStream consumer across restarts.
const DurableName = "tgbot-notifier"

// EventRelay forwards chat notifications published by the API to each chat.
type EventRelay struct {
	messenger Messenger
	logger    logger.ILogger
}

func NewEventRelay(messenger Messenger, log logger.ILogger) *EventRelay {
	return &EventRelay{messenger: messenger, logger: log}
}

// Handle never asks for redelivery: a chat that cannot be reached is logged and skipped.
func (r *EventRelay) Handle(ctx context.Context, event events.Event) error {
	n, err := events.DecodeChatNotification(event)
	if err != nil {
		r.logger.Error("BOT", "Dropping malformed event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return nil
	}
	if n.Message == "" || len(n.ChatIDs) == 0 {
		return nil
	}

	delivered := 0
	for _, chatID := range n.ChatIDs {
		if err := r.messenger.SendText(ctx, chatID, n.Message); err != nil {
			r.logger.Warn("BOT", "Delivery failed", map[string]interface{}{
				"type":    event.EventType(),
				"chat_id": chatID,
				"error":   err.Error(),
			})
			continue
		}
		delivered++
	}

	r.logger.Info("BOT", "Event relayed", map[string]interface{}{
		"type":       event.EventType(),
		"recipients": len(n.ChatIDs),
		"delivered":  delivered,
	})
	return nil
}
