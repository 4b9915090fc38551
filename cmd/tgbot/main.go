package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"library-service-be/internal/bot"
	"library-service-be/internal/config"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/repository/memory"
	"library-service-be/pkg/telegram"

	pktNats "library-service-be/pkg/nats"
)

const (
	loginSessionTTL = 10 * time.Minute
	apiTimeout      = 10 * time.Second
	pollTimeout     = 30
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Telegram.BotToken == "" {
		log.Fatal("Error: TELEGRAM_BOT_TOKEN is not set")
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	defer func() { _ = sysLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Telegram
	client, err := telegram.NewClient(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	log.Printf("Authorized as @%s", client.Username())

	// 3. Event relay (NATS -> chats)
	relay := bot.NewEventRelay(client, sysLogger)
	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v. Notifications disabled", err)
	} else {
		defer sub.Close()
		if err := sub.Subscribe(ctx, pktNats.SubjectPattern, bot.DurableName, relay.Handle); err != nil {
			log.Printf("[WARN] Failed to subscribe to %s: %v", pktNats.SubjectPattern, err)
		}
	}

	// 4. Conversations
	conv := bot.NewConversation(
		client,
		bot.NewAPIClient(cfg.Telegram.APIBaseURL, apiTimeout),
		memory.NewLoginSessionRepository(loginSessionTTL),
		sysLogger,
	)

	log.Println("Bot: listening for messages...")
	for u := range client.Updates(ctx, pollTimeout) {
		if err := conv.Handle(ctx, bot.Incoming{ChatID: u.ChatID, MessageID: u.MessageID, Text: u.Text}); err != nil {
			sysLogger.Warn("BOT", "Reply failed", map[string]interface{}{
				"chat_id": u.ChatID,
				"error":   err.Error(),
			})
		}
	}
	log.Println("Bot: stopped")
}
