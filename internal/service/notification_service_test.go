package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/logger"
	"library-service-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	err    error
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func chatId(v int64) *int64 { return &v }

func receive(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-messages:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestNotifier_QueuesSignUpEmail(t *testing.T) {
	freezeTime(t, "2024-02-02")
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), EmailTopic)
	require.NoError(t, err)

	notifier := NewNotificationService(newFakeStore(), &recordingPublisher{}, pubSub, logger.NewNopLogger())
	notifier.NotifySignUp(context.Background(), &entity.User{Email: "reader@example.com"})

	msg := receive(t, messages)
	notifier.Wait()

	var job EmailJob
	require.NoError(t, jsoniter.Unmarshal(msg.Payload, &job))
	assert.Equal(t, EmailKindSignUp, job.Kind)
	assert.Equal(t, "reader@example.com", job.To)
	assert.Equal(t, "2024-02-02", job.Date)
}

func TestNotifier_OverdueReachesStaffAndBorrower(t *testing.T) {
	freezeTime(t, "2024-01-10")
	store := newFakeStore()
	store.addUser("staff-a@example.com", true, chatId(100))
	store.addUser("staff-b@example.com", true, chatId(200))
	store.addUser("staff-c@example.com", true, nil)
	borrower := store.addUser("reader@example.com", false, chatId(100))

	publisher := &recordingPublisher{}
	notifier := NewNotificationService(store, publisher, nil, logger.NewNopLogger())

	borrowing := &entity.Borrowing{
		BorrowDate:         mustDate("2024-01-01"),
		ExpectedReturnDate: mustDate("2024-01-08"),
		Book:               &entity.Book{Title: "Dune"},
		User:               borrower,
		UserId:             borrower.Id,
	}
	notifier.NotifyOverdue(context.Background(), borrowing, mustDate("2024-01-10"))
	notifier.Wait()

	published := publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeBorrowingOverdue, published[0].EventType())

	chat, err := events.DecodeChatNotification(published[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{100, 200}, chat.ChatIDs)
	assert.Contains(t, chat.Message, "'Dune' borrowed by reader@example.com")
	assert.Contains(t, chat.Message, "2 day(s) late")
}

func TestNotifier_NoRecipientsPublishesNothing(t *testing.T) {
	publisher := &recordingPublisher{}
	notifier := NewNotificationService(newFakeStore(), publisher, nil, logger.NewNopLogger())

	notifier.NotifyNoOverdue(context.Background(), mustDate("2024-01-10"))
	notifier.Wait()

	assert.Empty(t, publisher.published())
}

func TestNotifier_DeliveryFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	store.addUser("staff@example.com", true, chatId(7))
	publisher := &recordingPublisher{err: errors.New("bus down")}
	notifier := NewNotificationService(store, publisher, nil, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		notifier.NotifyPaymentConfirmed(context.Background(), &entity.Payment{
			Type:       entity.PaymentTypeFee,
			MoneyToPay: mustDecimal("6"),
		})
		notifier.NotifySubscriptionChange(context.Background(), &entity.User{Email: "x@example.com"},
			&entity.Author{FirstName: "Frank", LastName: "Herbert"}, true, mustDate("2024-01-01"))
		notifier.Wait()
	})
}

type recordingEmailService struct {
	sent chan string
}

func (s *recordingEmailService) SendSignUp(toEmail string, joinedOn time.Time) error {
	s.sent <- "sign-up:" + toEmail + ":" + joinedOn.Format(entity.DateLayout)
	return nil
}

func (s *recordingEmailService) SendSubscriptionChange(toEmail, authorFullName string, subscribed bool, since time.Time) error {
	state := "unsubscribed"
	if subscribed {
		state = "subscribed"
	}
	s.sent <- state + ":" + toEmail + ":" + authorFullName + ":" + since.Format(entity.DateLayout)
	return nil
}

func TestConsumer_DeliversQueuedEmails(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	emails := &recordingEmailService{sent: make(chan string, 4)}
	consumer := NewConsumerService(pubSub, emails, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(context.Background()))

	publish := func(job EmailJob) {
		payload, err := jsoniter.Marshal(job)
		require.NoError(t, err)
		require.NoError(t, pubSub.Publish(EmailTopic, message.NewMessage(watermill.NewUUID(), payload)))
	}

	publish(EmailJob{Kind: "unknown", To: "ignored@example.com"})
	publish(EmailJob{
		Kind:           EmailKindSubscription,
		To:             "reader@example.com",
		AuthorFullName: "Frank Herbert",
		Subscribed:     true,
		Date:           "2024-01-01",
	})

	select {
	case sent := <-emails.sent:
		assert.Equal(t, "subscribed:reader@example.com:Frank Herbert:2024-01-01", sent)
	case <-time.After(2 * time.Second):
		t.Fatal("email was not delivered")
	}
}
