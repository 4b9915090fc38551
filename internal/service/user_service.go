package service

import (
	"context"
	"fmt"
	"strings"

	"library-service-be/internal/dto"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/repository/specification"
	"library-service-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetTelegram(ctx context.Context, userId uuid.UUID) (*dto.TelegramResponse, error)
	UpdateTelegram(ctx context.Context, userId uuid.UUID, req *dto.UpdateTelegramRequest) (*dto.TelegramResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user", userId)
	}
	return dto.NewUserProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user", userId)
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != user.Email {
		taken, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, fmt.Errorf("%w: email already registered", apperror.ErrConflict)
		}
		user.Email = email
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = timeNow()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return dto.NewUserProfileResponse(user), nil
}

func (s *userService) GetTelegram(ctx context.Context, userId uuid.UUID) (*dto.TelegramResponse, error) {
	profile, err := s.GetProfile(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.TelegramResponse{TelegramId: profile.TelegramId}, nil
}

func (s *userService) UpdateTelegram(ctx context.Context, userId uuid.UUID, req *dto.UpdateTelegramRequest) (*dto.TelegramResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user", userId)
	}

	if err := uow.UserRepository().UpdateTelegramId(ctx, userId, req.TelegramId); err != nil {
		return nil, err
	}
	return &dto.TelegramResponse{TelegramId: req.TelegramId}, nil
}
