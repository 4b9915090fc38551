package bot

import (
	"context"
	"errors"
	"sync"

	"library-service-be/internal/pkg/logger"
)

type sent struct {
	chatID int64
	text   string
}

type fakeMessenger struct {
	mu        sync.Mutex
	sent      []sent
	deleted   []int
	failChats map[int64]bool
	failDel   bool
}

func (m *fakeMessenger) SendText(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failChats[chatID] {
		return errors.New("bot was blocked by the user")
	}
	m.sent = append(m.sent, sent{chatID: chatID, text: text})
	return nil
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDel {
		return errors.New("message can't be deleted")
	}
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *fakeMessenger) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].text
}

type fakeAPI struct {
	password  string
	tokenErr  error
	linkErr   error
	linkedIDs []int64
	emails    []string
}

func (a *fakeAPI) Token(_ context.Context, email, password string) (string, error) {
	a.emails = append(a.emails, email)
	if a.tokenErr != nil {
		return "", a.tokenErr
	}
	if password != a.password {
		return "", ErrInvalidCredentials
	}
	return "access-" + email, nil
}

func (a *fakeAPI) LinkTelegram(_ context.Context, accessToken string, chatID int64) error {
	if a.linkErr != nil {
		return a.linkErr
	}
	if accessToken == "" {
		return errors.New("missing token")
	}
	a.linkedIDs = append(a.linkedIDs, chatID)
	return nil
}

var nopLogger logger.ILogger = logger.NewNopLogger()
