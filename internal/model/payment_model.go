package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status      string          `gorm:"type:varchar(10);not null;index:idx_payments_status_expiry,priority:1"`
	Type        string          `gorm:"type:varchar(10);not null"`
	BorrowingId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Borrowing   Borrowing       `gorm:"foreignKey:BorrowingId;constraint:OnDelete:CASCADE"`
	SessionUrl  string          `gorm:"type:text"`
	SessionId   string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	MoneyToPay  decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	ExpiresAt   time.Time       `gorm:"not null;index:idx_payments_status_expiry,priority:2"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
