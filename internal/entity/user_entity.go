package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleStaff UserRole = "staff"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	Role         UserRole
	// Telegram chat the user linked through the bot; nil until /login completes.
	TelegramId *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *User) IsStaff() bool {
	return u.Role == UserRoleStaff
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserId  uuid.UUID
	IsStaff bool
}

// CanAccess reports whether the actor owns the resource or is staff.
func (a Actor) CanAccess(ownerId uuid.UUID) bool {
	return a.IsStaff || a.UserId == ownerId
}
