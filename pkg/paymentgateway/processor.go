package paymentgateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionPaid    SessionStatus = "paid"
	SessionPending SessionStatus = "pending"
	SessionFailed  SessionStatus = "failed"
)

// SessionRequest describes a single-item checkout.
type SessionRequest struct {
	// OrderID is our identifier for the session; it must be unique per processor.
	OrderID    string
	ItemName   string
	// UnitAmount is the price of one item in minor currency units.
	UnitAmount int64
	Quantity   int64
	SuccessURL string
	CancelURL  string
	ExpiresIn  time.Duration
}

type Session struct {
	ID  string
	URL string
	// Amount is the total the processor will charge, in minor currency units.
	Amount int64
}

// MinorUnits converts an amount to minor currency units, rounding up.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Ceil().IntPart()
}

// Processor is the external payment processor behind checkout sessions.
type Processor interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	SessionStatus(ctx context.Context, sessionID string) (SessionStatus, error)
	// VerifySignature checks an asynchronous notification from the processor.
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}
