package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Author struct {
	Id           uuid.UUID
	FirstName    string
	LastName     string
	ProfileImage *string
	BooksCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Author) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", a.FirstName, a.LastName))
}

// Subscription links a user to an author whose news they follow.
type Subscription struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	AuthorId            uuid.UUID
	Author              *Author
	SubscriptionStarted time.Time
}
