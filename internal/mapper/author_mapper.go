package mapper

import (
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/model"

	"gorm.io/datatypes"
)

type AuthorMapper struct{}

func NewAuthorMapper() *AuthorMapper {
	return &AuthorMapper{}
}

func (m *AuthorMapper) ToEntity(a *model.Author) *entity.Author {
	if a == nil {
		return nil
	}
	return &entity.Author{
		Id:           a.Id,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		ProfileImage: a.ProfileImage,
		BooksCount:   a.BooksCount,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m *AuthorMapper) ToModel(a *entity.Author) *model.Author {
	if a == nil {
		return nil
	}
	return &model.Author{
		Id:           a.Id,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		ProfileImage: a.ProfileImage,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m *AuthorMapper) ToEntities(authors []*model.Author) []*entity.Author {
	entities := make([]*entity.Author, len(authors))
	for i, a := range authors {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func (m *AuthorMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	sub := &entity.Subscription{
		Id:                  s.Id,
		UserId:              s.UserId,
		AuthorId:            s.AuthorId,
		SubscriptionStarted: entity.DateOf(time.Time(s.SubscriptionStarted)),
	}
	if s.Author.Id == s.AuthorId {
		sub.Author = m.ToEntity(&s.Author)
	}
	return sub
}

func (m *AuthorMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                  s.Id,
		UserId:              s.UserId,
		AuthorId:            s.AuthorId,
		SubscriptionStarted: datatypes.Date(entity.DateOf(s.SubscriptionStarted)),
	}
}

func (m *AuthorMapper) SubscriptionsToEntities(subs []*model.Subscription) []*entity.Subscription {
	entities := make([]*entity.Subscription, len(subs))
	for i, s := range subs {
		entities[i] = m.SubscriptionToEntity(s)
	}
	return entities
}
