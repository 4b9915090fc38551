package service

import (
	"context"
	"fmt"
	"strings"

	"library-service-be/internal/dto"
	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/repository/specification"
	"library-service-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAuthorService interface {
	List(ctx context.Context, filter dto.AuthorFilter) (*dto.PageResponse[dto.AuthorResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AuthorResponse, error)
	Create(ctx context.Context, req *dto.AuthorRequest) (*dto.AuthorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.AuthorRequest) (*dto.AuthorResponse, error)
	Patch(ctx context.Context, id uuid.UUID, req *dto.AuthorPatchRequest) (*dto.AuthorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Subscribe(ctx context.Context, userId, authorId uuid.UUID) (*dto.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, userId, authorId uuid.UUID) error
	ListSubscriptions(ctx context.Context, userId uuid.UUID) ([]dto.SubscriptionResponse, error)
}

type authorService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   INotifier
}

func NewAuthorService(uowFactory unitofwork.RepositoryFactory, notifier INotifier) IAuthorService {
	return &authorService{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func authorSpecs(filter dto.AuthorFilter) []specification.Specification {
	var specs []specification.Specification
	if filter.FirstName != "" {
		specs = append(specs, specification.FirstNameContains{Value: filter.FirstName})
	}
	if filter.LastName != "" {
		specs = append(specs, specification.LastNameContains{Value: filter.LastName})
	}
	if filter.BooksCount != nil {
		specs = append(specs, specification.BooksCount{Op: "=", Value: *filter.BooksCount})
	}
	if filter.BooksGt != nil {
		specs = append(specs, specification.BooksCount{Op: ">", Value: *filter.BooksGt})
	}
	if filter.BooksLt != nil {
		specs = append(specs, specification.BooksCount{Op: "<", Value: *filter.BooksLt})
	}
	if filter.NoBooks {
		specs = append(specs, specification.HasBooks{Has: false})
	}
	if filter.HasBooks {
		specs = append(specs, specification.HasBooks{Has: true})
	}
	return specs
}

func (s *authorService) List(ctx context.Context, filter dto.AuthorFilter) (*dto.PageResponse[dto.AuthorResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	page := filter.PageQuery.Normalize()
	specs := authorSpecs(filter)

	count, err := uow.AuthorRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "authors.last_name"},
		specification.OrderBy{Field: "authors.first_name"},
		specification.Page(page.Page, page.PageSize),
	)
	authors, err := uow.AuthorRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	results := make([]dto.AuthorResponse, 0, len(authors))
	for _, a := range authors {
		results = append(results, dto.NewAuthorResponse(a))
	}
	return &dto.PageResponse[dto.AuthorResponse]{
		Count:    count,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  results,
	}, nil
}

func (s *authorService) find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Author, error) {
	author, err := uow.AuthorRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperror.NotFound("author", id)
	}
	return author, nil
}

func (s *authorService) Get(ctx context.Context, id uuid.UUID) (*dto.AuthorResponse, error) {
	author, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewAuthorResponse(author)
	return &resp, nil
}

func normalizeAuthor(req *dto.AuthorRequest) (string, string, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return "", "", apperror.Validation("first_name and last_name are required")
	}
	return first, last, nil
}

func (s *authorService) Create(ctx context.Context, req *dto.AuthorRequest) (*dto.AuthorResponse, error) {
	first, last, err := normalizeAuthor(req)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.AuthorRepository().FindOne(ctx, specification.ByFullName{FirstName: first, LastName: last})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: author %s %s already exists", apperror.ErrConflict, first, last)
	}

	now := timeNow()
	author := &entity.Author{
		Id:           uuid.New(),
		FirstName:    first,
		LastName:     last,
		ProfileImage: req.ProfileImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.AuthorRepository().Create(ctx, author); err != nil {
		return nil, err
	}

	resp := dto.NewAuthorResponse(author)
	return &resp, nil
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, req *dto.AuthorRequest) (*dto.AuthorResponse, error) {
	return s.update(ctx, id, func(*entity.Author) *dto.AuthorRequest { return req })
}

func (s *authorService) Patch(ctx context.Context, id uuid.UUID, req *dto.AuthorPatchRequest) (*dto.AuthorResponse, error) {
	return s.update(ctx, id, req.Merge)
}

func (s *authorService) update(ctx context.Context, id uuid.UUID, build func(*entity.Author) *dto.AuthorRequest) (*dto.AuthorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	author, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	req := build(author)
	first, last, err := normalizeAuthor(req)
	if err != nil {
		return nil, err
	}

	author.FirstName = first
	author.LastName = last
	author.ProfileImage = req.ProfileImage
	author.UpdatedAt = timeNow()
	if err := uow.AuthorRepository().Update(ctx, author); err != nil {
		return nil, err
	}

	resp := dto.NewAuthorResponse(author)
	return &resp, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.find(ctx, uow, id); err != nil {
		return err
	}
	return uow.AuthorRepository().Delete(ctx, id)
}

func (s *authorService) Subscribe(ctx context.Context, userId, authorId uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	author, err := s.find(ctx, uow, authorId)
	if err != nil {
		return nil, err
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user", userId)
	}

	existing, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByAuthorID{AuthorID: authorId},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already subscribed to %s", apperror.ErrConflict, author.FullName())
	}

	subscription := &entity.Subscription{
		Id:                  uuid.New(),
		UserId:              userId,
		AuthorId:            authorId,
		Author:              author,
		SubscriptionStarted: currentDate(),
	}
	if err := uow.SubscriptionRepository().Create(ctx, subscription); err != nil {
		return nil, err
	}

	s.notifier.NotifySubscriptionChange(ctx, user, author, true, subscription.SubscriptionStarted)

	resp := dto.NewSubscriptionResponse(subscription)
	return &resp, nil
}

func (s *authorService) Unsubscribe(ctx context.Context, userId, authorId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subscription, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByAuthorID{AuthorID: authorId},
	)
	if err != nil {
		return err
	}
	if subscription == nil {
		return apperror.NotFound("subscription to author", authorId)
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}

	if err := uow.SubscriptionRepository().Delete(ctx, subscription.Id); err != nil {
		return err
	}

	if user != nil && subscription.Author != nil {
		s.notifier.NotifySubscriptionChange(ctx, user, subscription.Author, false, subscription.SubscriptionStarted)
	}
	return nil
}

func (s *authorService) ListSubscriptions(ctx context.Context, userId uuid.UUID) ([]dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subscriptions, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "subscription_started", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SubscriptionResponse, 0, len(subscriptions))
	for _, sub := range subscriptions {
		results = append(results, dto.NewSubscriptionResponse(sub))
	}
	return results, nil
}
