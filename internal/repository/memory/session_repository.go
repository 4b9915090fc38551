package memory

import (
	"strconv"
	"time"

	"library-service-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

type LoginSessionRepository struct {
	cache *cache.Cache
}

// NewLoginSessionRepository keeps each session for ttl after its last save.
func NewLoginSessionRepository(ttl time.Duration) *LoginSessionRepository {
	c := cache.New(ttl, ttl)
	return &LoginSessionRepository{
		cache: c,
	}
}

func (r *LoginSessionRepository) Save(session *entity.LoginSession) {
	r.cache.Set(key(session.ChatID), session, cache.DefaultExpiration)
}

func (r *LoginSessionRepository) Get(chatID int64) (*entity.LoginSession, bool) {
	if x, found := r.cache.Get(key(chatID)); found {
		return x.(*entity.LoginSession), true
	}
	return nil, false
}

func (r *LoginSessionRepository) Delete(chatID int64) {
	r.cache.Delete(key(chatID))
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
