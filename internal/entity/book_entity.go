package entity

import (
	"strings"
	"time"

	"library-service-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookCover string

const (
	BookCoverHard BookCover = "hard"
	BookCoverSoft BookCover = "soft"
)

func (c BookCover) Valid() bool {
	return c == BookCoverHard || c == BookCoverSoft
}

type Book struct {
	Id        uuid.UUID
	Title     string
	AuthorId  uuid.UUID
	Author    *Author
	Cover     BookCover
	Inventory int
	DailyFee  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate is run before every write of a book.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return apperror.Validation("title is required")
	}
	if !b.Cover.Valid() {
		return apperror.Validation("cover must be one of hard, soft")
	}
	if b.Inventory < 0 {
		return apperror.Validation("inventory must be greater than or equal to 0")
	}
	if b.DailyFee.IsNegative() {
		return apperror.Validation("daily_fee must be greater than or equal to 0")
	}
	return nil
}

func (b *Book) IsAvailable() bool {
	return b.Inventory > 0
}
