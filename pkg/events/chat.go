package events

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	TypeBorrowingCreated = "BORROWING_CREATED"
	TypeBorrowingOverdue = "BORROWING_OVERDUE"
	TypeNoOverdue        = "NO_OVERDUE"
	TypePaymentConfirmed = "PAYMENT_CONFIRMED"
)

// ChatNotification is the payload of every event the chat bot delivers.
type ChatNotification struct {
	ChatIDs    []int64   `json:"chat_ids"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewChatEvent(eventType string, chatIDs []int64, message string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"chat_ids":    chatIDs,
			"message":     message,
			"occurred_at": at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

// DecodeChatNotification reads a ChatNotification back out of a generic event payload.
func DecodeChatNotification(event Event) (*ChatNotification, error) {
	raw, err := jsoniter.Marshal(event.Payload())
	if err != nil {
		return nil, err
	}
	var n ChatNotification
	if err := jsoniter.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("invalid chat notification: %w", err)
	}
	return &n, nil
}
