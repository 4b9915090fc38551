package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string
type PaymentType string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusExpired PaymentStatus = "expired"

	PaymentTypePayment PaymentType = "payment"
	PaymentTypeFee     PaymentType = "fee"
)

type Payment struct {
	Id          uuid.UUID
	Status      PaymentStatus
	Type        PaymentType
	BorrowingId uuid.UUID
	Borrowing   *Borrowing
	SessionUrl  string
	SessionId   string
	MoneyToPay  decimal.Decimal
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Payment) IsExpired(now time.Time) bool {
	return p.Status == PaymentStatusPending && p.ExpiresAt.Before(now)
}
