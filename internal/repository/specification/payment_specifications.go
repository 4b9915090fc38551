package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// PaymentOwnedBy keeps payments of borrowings that belong to UserID.
type PaymentOwnedBy struct {
	UserID uuid.UUID
}

func (s PaymentOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("borrowing_id IN (SELECT id FROM borrowings WHERE user_id = ?)", s.UserID)
}
