package dto

import (
	"time"

	"library-service-be/internal/entity"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	IsStaff    bool      `json:"is_staff"`
	TelegramId *int64    `json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewUserProfileResponse(u *entity.User) *UserProfileResponse {
	return &UserProfileResponse{
		Id:         u.Id,
		Email:      u.Email,
		IsStaff:    u.IsStaff(),
		TelegramId: u.TelegramId,
		CreatedAt:  u.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
}

type TelegramResponse struct {
	TelegramId *int64 `json:"telegram_id"`
}

type UpdateTelegramRequest struct {
	TelegramId *int64 `json:"telegram_id" validate:"required"`
}
