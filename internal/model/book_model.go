package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Book struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_books_identity,priority:1"`
	AuthorId  uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_books_identity,priority:2"`
	Author    Author          `gorm:"foreignKey:AuthorId;constraint:OnDelete:CASCADE"`
	Cover     string          `gorm:"type:varchar(4);not null;uniqueIndex:idx_books_identity,priority:3"`
	Inventory int             `gorm:"not null;default:0"`
	DailyFee  decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (Book) TableName() string {
	return "books"
}
