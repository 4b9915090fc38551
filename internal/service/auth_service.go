package service

import (
	"context"
	"fmt"
	"strings"

	"library-service-be/internal/config"
	"library-service-be/internal/dto"
	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/pkg/serverutils"
	"library-service-be/internal/repository/specification"
	"library-service-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Token(ctx context.Context, req *dto.TokenRequest) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AccessResponse, error)
	Verify(ctx context.Context, req *dto.VerifyTokenRequest) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   INotifier
	cfg        config.AuthConfig
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, notifier INotifier, cfg config.AuthConfig) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		notifier:   notifier,
		cfg:        cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperror.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.UserRoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.NotifySignUp(ctx, user)

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Token(ctx context.Context, req *dto.TokenRequest) (*dto.TokenPairResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: strings.TrimSpace(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
	}

	now := timeNow()
	access, err := serverutils.IssueToken(s.cfg.JwtSecret, user.Id, user.Role, serverutils.TokenTypeAccess, s.cfg.AccessLifetime, now)
	if err != nil {
		return nil, err
	}
	refresh, err := serverutils.IssueToken(s.cfg.JwtSecret, user.Id, user.Role, serverutils.TokenTypeRefresh, s.cfg.RefreshLifetime, now)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{Access: access, Refresh: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AccessResponse, error) {
	claims, err := serverutils.ParseToken(s.cfg.JwtSecret, req.Refresh)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != serverutils.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: not a refresh token", apperror.ErrUnauthorized)
	}

	// The role is re-read so a promotion or demotion applies on the next refresh.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: claims.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user no longer exists", apperror.ErrUnauthorized)
	}

	access, err := serverutils.IssueToken(s.cfg.JwtSecret, user.Id, user.Role, serverutils.TokenTypeAccess, s.cfg.AccessLifetime, timeNow())
	if err != nil {
		return nil, err
	}
	return &dto.AccessResponse{Access: access}, nil
}

func (s *authService) Verify(ctx context.Context, req *dto.VerifyTokenRequest) error {
	_, err := serverutils.ParseToken(s.cfg.JwtSecret, req.Token)
	return err
}
