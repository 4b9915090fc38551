package memory

import (
	"testing"
	"time"

	"library-service-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewLoginSessionRepository(time.Minute)

	repo.Save(&entity.LoginSession{ChatID: 42, Step: entity.LoginStepAwaitEmail})
	got, ok := repo.Get(42)
	require.True(t, ok)
	assert.Equal(t, entity.LoginStepAwaitEmail, got.Step)

	_, ok = repo.Get(7)
	assert.False(t, ok, "sessions are per chat")

	repo.Delete(42)
	_, ok = repo.Get(42)
	assert.False(t, ok)
}

func TestLoginSessionRepositoryExpires(t *testing.T) {
	repo := NewLoginSessionRepository(20 * time.Millisecond)
	repo.Save(&entity.LoginSession{ChatID: 1, Step: entity.LoginStepAwaitPassword})

	assert.Eventually(t, func() bool {
		_, ok := repo.Get(1)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
