package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Borrowing struct {
	Id                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BorrowDate         datatypes.Date  `gorm:"not null"`
	ExpectedReturnDate datatypes.Date  `gorm:"not null;index"`
	ActualReturnDate   *datatypes.Date `gorm:"index"`
	BookId             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Book               Book            `gorm:"foreignKey:BookId;constraint:OnDelete:CASCADE"`
	UserId             uuid.UUID       `gorm:"type:uuid;not null;index"`
	User               User            `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Payments           []Payment       `gorm:"foreignKey:BorrowingId;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time       `gorm:"autoCreateTime"`
}

func (Borrowing) TableName() string {
	return "borrowings"
}
