package dto

import (
	"library-service-be/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuthorRequest struct {
	FirstName    string  `json:"first_name" validate:"required,max=255"`
	LastName     string  `json:"last_name" validate:"required,max=255"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

// AuthorPatchRequest changes only the fields present in the body.
type AuthorPatchRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=255"`
	LastName     *string `json:"last_name" validate:"omitempty,max=255"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

// Merge returns the full request for a, with the patched fields replaced.
func (p *AuthorPatchRequest) Merge(a *entity.Author) *AuthorRequest {
	req := &AuthorRequest{FirstName: a.FirstName, LastName: a.LastName, ProfileImage: a.ProfileImage}
	if p.FirstName != nil {
		req.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		req.LastName = *p.LastName
	}
	if p.ProfileImage != nil {
		req.ProfileImage = p.ProfileImage
	}
	return req
}

type AuthorResponse struct {
	Id           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FullName     string    `json:"full_name"`
	ProfileImage *string   `json:"profile_image"`
	BooksCount   int       `json:"books_count"`
}

func NewAuthorResponse(a *entity.Author) AuthorResponse {
	return AuthorResponse{
		Id:           a.Id,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		FullName:     a.FullName(),
		ProfileImage: a.ProfileImage,
		BooksCount:   a.BooksCount,
	}
}

type AuthorFilter struct {
	PageQuery
	FirstName  string
	LastName   string
	BooksCount *int
	BooksGt    *int
	BooksLt    *int
	NoBooks    bool
	HasBooks   bool
}

type SubscriptionResponse struct {
	Id                  uuid.UUID `json:"id"`
	AuthorId            uuid.UUID `json:"author_id"`
	AuthorFullName      string    `json:"author_full_name"`
	SubscriptionStarted string    `json:"subscription_started"`
}

func NewSubscriptionResponse(s *entity.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		Id:                  s.Id,
		AuthorId:            s.AuthorId,
		SubscriptionStarted: s.SubscriptionStarted.Format(entity.DateLayout),
	}
	if s.Author != nil {
		resp.AuthorFullName = s.Author.FullName()
	}
	return resp
}

type BookRequest struct {
	Title     string          `json:"title" validate:"required,max=255"`
	AuthorId  uuid.UUID       `json:"author_id" validate:"required"`
	Cover     string          `json:"cover" validate:"required,oneof=hard soft"`
	Inventory int             `json:"inventory" validate:"min=0"`
	DailyFee  decimal.Decimal `json:"daily_fee"`
}

type BookPatchRequest struct {
	Title     *string          `json:"title" validate:"omitempty,max=255"`
	AuthorId  *uuid.UUID       `json:"author_id"`
	Cover     *string          `json:"cover" validate:"omitempty,oneof=hard soft"`
	Inventory *int             `json:"inventory" validate:"omitempty,min=0"`
	DailyFee  *decimal.Decimal `json:"daily_fee"`
}

func (p *BookPatchRequest) Merge(b *entity.Book) *BookRequest {
	req := &BookRequest{
		Title:     b.Title,
		AuthorId:  b.AuthorId,
		Cover:     string(b.Cover),
		Inventory: b.Inventory,
		DailyFee:  b.DailyFee,
	}
	if p.Title != nil {
		req.Title = *p.Title
	}
	if p.AuthorId != nil {
		req.AuthorId = *p.AuthorId
	}
	if p.Cover != nil {
		req.Cover = *p.Cover
	}
	if p.Inventory != nil {
		req.Inventory = *p.Inventory
	}
	if p.DailyFee != nil {
		req.DailyFee = *p.DailyFee
	}
	return req
}

type BookResponse struct {
	Id         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	AuthorId   uuid.UUID       `json:"author_id"`
	AuthorName string          `json:"author,omitempty"`
	Cover      string          `json:"cover"`
	Inventory  int             `json:"inventory"`
	DailyFee   decimal.Decimal `json:"daily_fee"`
}

func NewBookResponse(b *entity.Book) BookResponse {
	resp := BookResponse{
		Id:        b.Id,
		Title:     b.Title,
		AuthorId:  b.AuthorId,
		Cover:     string(b.Cover),
		Inventory: b.Inventory,
		DailyFee:  b.DailyFee,
	}
	if b.Author != nil {
		resp.AuthorName = b.Author.FullName()
	}
	return resp
}

type BookFilter struct {
	PageQuery
	Title           string
	AuthorId        string
	AuthorFirstName string
	AuthorLastName  string
	Cover           string
	Available       bool
	Unavailable     bool
}
