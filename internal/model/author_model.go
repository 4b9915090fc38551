package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Author struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_authors_full_name,priority:1"`
	LastName     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_authors_full_name,priority:2"`
	ProfileImage *string   `gorm:"type:text"`
	Books        []Book    `gorm:"foreignKey:AuthorId;constraint:OnDelete:CASCADE"`
	// Filled by the books_count subquery on reads only.
	BooksCount int       `gorm:"->;-:migration"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Author) TableName() string {
	return "authors"
}

// Subscription is the join row between a user and a followed author.
type Subscription struct {
	Id                  uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId              uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:1"`
	User                User          `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	AuthorId            uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:2"`
	Author              Author        `gorm:"foreignKey:AuthorId;constraint:OnDelete:CASCADE"`
	SubscriptionStarted datatypes.Date `gorm:"not null"`
}

func (Subscription) TableName() string {
	return "author_subscriptions"
}
