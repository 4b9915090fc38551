package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/repository/specification"
	"library-service-be/internal/repository/unitofwork"
	"library-service-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	jsoniter "github.com/json-iterator/go"
)

const (
	EmailTopic = "email.jobs"

	EmailKindSignUp       = "sign-up"
	EmailKindSubscription = "subscription"

	notifyTimeout = 10 * time.Second
)

// EmailJob is queued on EmailTopic and delivered by the consumer service.
type EmailJob struct {
	Kind           string `json:"kind"`
	To             string `json:"to"`
	AuthorFullName string `json:"author_full_name,omitempty"`
	Subscribed     bool   `json:"subscribed,omitempty"`
	Date           string `json:"date"`
}

// INotifier delivers best-effort messages after a business transaction committed.
// No method returns an error: failures are logged as notification delivery errors.
type INotifier interface {
	NotifySignUp(ctx context.Context, user *entity.User)
	NotifyBorrowingCreated(ctx context.Context, borrowing *entity.Borrowing)
	NotifyOverdue(ctx context.Context, borrowing *entity.Borrowing, today time.Time)
	NotifyNoOverdue(ctx context.Context, today time.Time)
	NotifyPaymentConfirmed(ctx context.Context, payment *entity.Payment)
	NotifySubscriptionChange(ctx context.Context, user *entity.User, author *entity.Author, subscribed bool, since time.Time)
	// Wait blocks until every dispatched notification finished.
	Wait()
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	emailQueue message.Publisher
	logger     logger.ILogger
	wg         sync.WaitGroup
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	emailQueue message.Publisher,
	log logger.ILogger,
) INotifier {
	return &notificationService{
		uowFactory: uowFactory,
		publisher:  publisher,
		emailQueue: emailQueue,
		logger:     log,
	}
}

// dispatch runs fn detached from the request so a slow bus never delays the caller.
func (s *notificationService) dispatch(ctx context.Context, kind string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error("NOTIFIER", "Notification not delivered", map[string]interface{}{
				"kind":  kind,
				"error": fmt.Errorf("%w: %v", apperror.ErrNotificationDelivery, err).Error(),
			})
			return
		}
		s.logger.Info("NOTIFIER", "Notification dispatched", map[string]interface{}{"kind": kind})
	}()
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}

func (s *notificationService) staffChatIds(ctx context.Context) ([]int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	staff, err := uow.UserRepository().FindAll(ctx, specification.StaffWithTelegram{})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(staff))
	for _, u := range staff {
		if u.TelegramId != nil {
			ids = append(ids, *u.TelegramId)
		}
	}
	return ids, nil
}

// chatRecipients returns the staff chats plus the chat of extra, without duplicates.
func (s *notificationService) chatRecipients(ctx context.Context, extra *entity.User) ([]int64, error) {
	ids, err := s.staffChatIds(ctx)
	if err != nil {
		return nil, err
	}
	if extra == nil || extra.TelegramId == nil {
		return ids, nil
	}
	for _, id := range ids {
		if id == *extra.TelegramId {
			return ids, nil
		}
	}
	return append(ids, *extra.TelegramId), nil
}

func (s *notificationService) publishChat(ctx context.Context, eventType string, chatIds []int64, text string) error {
	if len(chatIds) == 0 {
		s.logger.Debug("NOTIFIER", "No chat recipients", map[string]interface{}{"event": eventType})
		return nil
	}
	if s.publisher == nil {
		return fmt.Errorf("no event publisher configured")
	}
	return s.publisher.Publish(ctx, events.NewChatEvent(eventType, chatIds, text, timeNow()))
}

func (s *notificationService) queueEmail(job EmailJob) error {
	if s.emailQueue == nil {
		return fmt.Errorf("no email queue configured")
	}
	payload, err := jsoniter.Marshal(job)
	if err != nil {
		return err
	}
	return s.emailQueue.Publish(EmailTopic, message.NewMessage(watermill.NewUUID(), payload))
}

func (s *notificationService) NotifySignUp(ctx context.Context, user *entity.User) {
	job := EmailJob{
		Kind: EmailKindSignUp,
		To:   user.Email,
		Date: entity.DateOf(timeNow()).Format(entity.DateLayout),
	}
	s.dispatch(ctx, EmailKindSignUp, func(ctx context.Context) error {
		return s.queueEmail(job)
	})
}

func (s *notificationService) NotifySubscriptionChange(ctx context.Context, user *entity.User, author *entity.Author, subscribed bool, since time.Time) {
	job := EmailJob{
		Kind:           EmailKindSubscription,
		To:             user.Email,
		AuthorFullName: author.FullName(),
		Subscribed:     subscribed,
		Date:           since.Format(entity.DateLayout),
	}
	s.dispatch(ctx, EmailKindSubscription, func(ctx context.Context) error {
		return s.queueEmail(job)
	})
}

func (s *notificationService) NotifyBorrowingCreated(ctx context.Context, borrowing *entity.Borrowing) {
	text := fmt.Sprintf("New borrowing: %s, to be returned on %s.",
		borrowing.String(), borrowing.ExpectedReturnDate.Format(entity.DateLayout))

	s.dispatch(ctx, events.TypeBorrowingCreated, func(ctx context.Context) error {
		chatIds, err := s.staffChatIds(ctx)
		if err != nil {
			return err
		}
		return s.publishChat(ctx, events.TypeBorrowingCreated, chatIds, text)
	})
}

func (s *notificationService) NotifyOverdue(ctx context.Context, borrowing *entity.Borrowing, today time.Time) {
	text := fmt.Sprintf("Overdue: %s was expected back on %s (%d day(s) late).",
		borrowing.String(),
		borrowing.ExpectedReturnDate.Format(entity.DateLayout),
		borrowing.OverdueDays(today))
	borrower := borrowing.User

	s.dispatch(ctx, events.TypeBorrowingOverdue, func(ctx context.Context) error {
		chatIds, err := s.chatRecipients(ctx, borrower)
		if err != nil {
			return err
		}
		return s.publishChat(ctx, events.TypeBorrowingOverdue, chatIds, text)
	})
}

func (s *notificationService) NotifyNoOverdue(ctx context.Context, today time.Time) {
	text := fmt.Sprintf("No borrowings overdue today! (%s)", today.Format(entity.DateLayout))

	s.dispatch(ctx, events.TypeNoOverdue, func(ctx context.Context) error {
		chatIds, err := s.staffChatIds(ctx)
		if err != nil {
			return err
		}
		return s.publishChat(ctx, events.TypeNoOverdue, chatIds, text)
	})
}

func (s *notificationService) NotifyPaymentConfirmed(ctx context.Context, payment *entity.Payment) {
	subject := payment.BorrowingId.String()
	var borrower *entity.User
	if payment.Borrowing != nil {
		subject = payment.Borrowing.String()
		borrower = payment.Borrowing.User
	}
	text := fmt.Sprintf("Payment confirmed: %s of %s for %s.",
		payment.Type, payment.MoneyToPay.StringFixed(2), subject)

	s.dispatch(ctx, events.TypePaymentConfirmed, func(ctx context.Context) error {
		chatIds, err := s.chatRecipients(ctx, borrower)
		if err != nil {
			return err
		}
		return s.publishChat(ctx, events.TypePaymentConfirmed, chatIds, text)
	})
}
