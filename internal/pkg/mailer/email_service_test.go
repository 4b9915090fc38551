package mailer

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"library-service-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, m...)
	return nil
}

func TestSendSignUp(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailServiceWithSender(sender, "from@example.com", "Library", logger.NewNopLogger())

	err := svc.SendSignUp("user@example.com", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	m := sender.messages[0]
	assert.Equal(t, []string{"user@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Welcome to the library"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2024-01-01")
}

func TestSendSubscriptionChange(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailServiceWithSender(sender, "from@example.com", "Library", logger.NewNopLogger())
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SendSubscriptionChange("user@example.com", "John Doe", true, since))
	require.NoError(t, svc.SendSubscriptionChange("user@example.com", "John Doe", false, since))

	require.Len(t, sender.messages, 2)
	assert.Equal(t, []string{"You subscribed to John Doe"}, sender.messages[0].GetHeader("Subject"))
	assert.Equal(t, []string{"You unsubscribed from John Doe"}, sender.messages[1].GetHeader("Subject"))
}

func TestSendReturnsDialError(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := NewEmailServiceWithSender(sender, "from@example.com", "Library", logger.NewNopLogger())

	assert.Error(t, svc.SendSignUp("user@example.com", time.Now()))
}
