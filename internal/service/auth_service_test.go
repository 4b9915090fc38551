package service

import (
	"context"
	"testing"
	"time"

	"library-service-be/internal/config"
	"library-service-be/internal/dto"
	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JwtSecret:       "test-secret",
		AccessLifetime:  30 * time.Minute,
		RefreshLifetime: 24 * time.Hour,
	}
}

func TestAuthService_RegisterAndToken(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewAuthService(store, notifier, testAuthConfig())
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{Email: " Reader@Example.com ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", registered.Email)
	assert.Equal(t, []string{"sign-up"}, notifier.kinds())

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "reader@example.com", Password: "another one"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Token(ctx, &dto.TokenRequest{Email: "reader@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Token(ctx, &dto.TokenRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	pair, err := svc.Token(ctx, &dto.TokenRequest{Email: "READER@example.com", Password: "correct horse"})
	require.NoError(t, err)

	claims, err := serverutils.ParseToken("test-secret", pair.Access)
	require.NoError(t, err)
	assert.Equal(t, registered.Id, claims.UserId)
	assert.Equal(t, serverutils.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, string(entity.UserRoleUser), claims.Role)

	require.NoError(t, svc.Verify(ctx, &dto.VerifyTokenRequest{Token: pair.Refresh}))
	assert.ErrorIs(t, svc.Verify(ctx, &dto.VerifyTokenRequest{Token: "garbage"}), apperror.ErrUnauthorized)
}

func TestAuthService_RefreshPicksUpRoleChanges(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(store, &fakeNotifier{}, testAuthConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "clerk@example.com", Password: "long enough"})
	require.NoError(t, err)
	pair, err := svc.Token(ctx, &dto.TokenRequest{Email: "clerk@example.com", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{Refresh: pair.Access})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	store.mu.Lock()
	store.data.users[0].Role = entity.UserRoleStaff
	store.mu.Unlock()

	refreshed, err := svc.Refresh(ctx, &dto.RefreshRequest{Refresh: pair.Refresh})
	require.NoError(t, err)
	claims, err := serverutils.ParseToken("test-secret", refreshed.Access)
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserRoleStaff), claims.Role)
}

func TestUserService_ProfileAndTelegram(t *testing.T) {
	store := newFakeStore()
	svc := NewUserService(store)
	ctx := context.Background()

	reader := store.addUser("reader@example.com", false, nil)
	store.addUser("taken@example.com", false, nil)

	_, err := svc.UpdateProfile(ctx, reader.Id, &dto.UpdateProfileRequest{Email: "taken@example.com"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	profile, err := svc.UpdateProfile(ctx, reader.Id, &dto.UpdateProfileRequest{Email: "New@Example.com", Password: "a new secret"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", profile.Email)

	store.mu.Lock()
	hash := store.data.users[0].PasswordHash
	store.mu.Unlock()
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("a new secret")))

	chatId := int64(424242)
	linked, err := svc.UpdateTelegram(ctx, reader.Id, &dto.UpdateTelegramRequest{TelegramId: &chatId})
	require.NoError(t, err)
	assert.Equal(t, chatId, *linked.TelegramId)

	current, err := svc.GetTelegram(ctx, reader.Id)
	require.NoError(t, err)
	require.NotNil(t, current.TelegramId)
	assert.Equal(t, chatId, *current.TelegramId)
}
