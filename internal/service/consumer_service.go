package service

import (
	"context"
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	jsoniter "github.com/json-iterator/go"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService delivers the email jobs queued by the notifier.
type consumerService struct {
	subscriber   message.Subscriber
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, emailService mailer.IEmailService, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		emailService: emailService,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, EmailTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

// processMessage always acks: a failed email is logged, never retried forever.
func (cs *consumerService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var job EmailJob
	if err := jsoniter.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("EMAIL_CONSUMER", "Dropping undecodable email job", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	date, err := entity.ParseDate(job.Date)
	if err != nil {
		date = entity.DateOf(time.Now())
	}

	switch job.Kind {
	case EmailKindSignUp:
		err = cs.emailService.SendSignUp(job.To, date)
	case EmailKindSubscription:
		err = cs.emailService.SendSubscriptionChange(job.To, job.AuthorFullName, job.Subscribed, date)
	default:
		cs.logger.Warn("EMAIL_CONSUMER", "Unknown email job kind", map[string]interface{}{"kind": job.Kind})
		return
	}

	if err != nil {
		cs.logger.Error("EMAIL_CONSUMER", "Email not delivered", map[string]interface{}{
			"kind":  job.Kind,
			"to":    job.To,
			"error": err.Error(),
		})
	}
}
