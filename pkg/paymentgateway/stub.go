package paymentgateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// StubProcessor is a no-op processor for local development. Sessions are
// reported paid once MarkPaid was called for them.
type StubProcessor struct {
	mu   sync.Mutex
	paid map[string]bool
}

func NewStubProcessor() *StubProcessor {
	return &StubProcessor{paid: make(map[string]bool)}
}

func (s *StubProcessor) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	id := "stub_" + req.OrderID
	sep := "?"
	if strings.Contains(req.SuccessURL, "?") {
		sep = "&"
	}
	return &Session{
		ID:     id,
		URL:    fmt.Sprintf("%s%ssession_id=%s", req.SuccessURL, sep, url.QueryEscape(id)),
		Amount: req.UnitAmount * quantity(req),
	}, nil
}

func (s *StubProcessor) SessionStatus(ctx context.Context, sessionID string) (SessionStatus, error) {
	if !strings.HasPrefix(sessionID, "stub_") {
		return "", fmt.Errorf("unknown stub session %q", sessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paid[sessionID] {
		return SessionPaid, nil
	}
	return SessionPending, nil
}

func (s *StubProcessor) MarkPaid(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paid[sessionID] = true
}

func (s *StubProcessor) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return false
}
