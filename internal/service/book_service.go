package service

import (
	"context"
	"strings"

	"library-service-be/internal/dto"
	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/repository/specification"
	"library-service-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IBookService interface {
	List(ctx context.Context, filter dto.BookFilter) (*dto.PageResponse[dto.BookResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BookResponse, error)
	Create(ctx context.Context, req *dto.BookRequest) (*dto.BookResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.BookRequest) (*dto.BookResponse, error)
	Patch(ctx context.Context, id uuid.UUID, req *dto.BookPatchRequest) (*dto.BookResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewBookService(uowFactory unitofwork.RepositoryFactory) IBookService {
	return &bookService{uowFactory: uowFactory}
}

func bookSpecs(filter dto.BookFilter) ([]specification.Specification, error) {
	var specs []specification.Specification
	if filter.Title != "" {
		specs = append(specs, specification.TitleContains{Value: filter.Title})
	}
	if filter.AuthorId != "" {
		authorId, err := uuid.Parse(filter.AuthorId)
		if err != nil {
			return nil, apperror.Validation("author-id must be a UUID")
		}
		specs = append(specs, specification.ByAuthorID{AuthorID: authorId})
	}
	if filter.AuthorFirstName != "" {
		specs = append(specs, specification.AuthorFirstNameContains{Value: filter.AuthorFirstName})
	}
	if filter.AuthorLastName != "" {
		specs = append(specs, specification.AuthorLastNameContains{Value: filter.AuthorLastName})
	}
	if filter.Cover != "" {
		if !entity.BookCover(filter.Cover).Valid() {
			return nil, apperror.Validation("cover must be one of hard, soft")
		}
		specs = append(specs, specification.ByCover{Cover: filter.Cover})
	}
	if filter.Available {
		specs = append(specs, specification.Availability{Available: true})
	}
	if filter.Unavailable {
		specs = append(specs, specification.Availability{Available: false})
	}
	return specs, nil
}

func (s *bookService) List(ctx context.Context, filter dto.BookFilter) (*dto.PageResponse[dto.BookResponse], error) {
	specs, err := bookSpecs(filter)
	if err != nil {
		return nil, err
	}
	page := filter.PageQuery.Normalize()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.BookRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "books.title"},
		specification.Page(page.Page, page.PageSize),
	)
	books, err := uow.BookRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	results := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		results = append(results, dto.NewBookResponse(b))
	}
	return &dto.PageResponse[dto.BookResponse]{
		Count:    count,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  results,
	}, nil
}

func (s *bookService) find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Book, error) {
	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NotFound("book", id)
	}
	return book, nil
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (*dto.BookResponse, error) {
	book, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewBookResponse(book)
	return &resp, nil
}

// apply copies the request onto book and validates the result before any write.
func (s *bookService) apply(ctx context.Context, uow unitofwork.UnitOfWork, book *entity.Book, req *dto.BookRequest) error {
	author, err := uow.AuthorRepository().FindOne(ctx, specification.ByID{ID: req.AuthorId})
	if err != nil {
		return err
	}
	if author == nil {
		return apperror.NotFound("author", req.AuthorId)
	}

	book.Title = strings.TrimSpace(req.Title)
	book.AuthorId = author.Id
	book.Author = author
	book.Cover = entity.BookCover(req.Cover)
	book.Inventory = req.Inventory
	book.DailyFee = req.DailyFee.Round(2)
	return book.Validate()
}

func (s *bookService) Create(ctx context.Context, req *dto.BookRequest) (*dto.BookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := timeNow()
	book := &entity.Book{Id: uuid.New(), CreatedAt: now, UpdatedAt: now}
	if err := s.apply(ctx, uow, book, req); err != nil {
		return nil, err
	}

	if err := uow.BookRepository().Create(ctx, book); err != nil {
		return nil, err
	}
	resp := dto.NewBookResponse(book)
	return &resp, nil
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *dto.BookRequest) (*dto.BookResponse, error) {
	return s.update(ctx, id, func(*entity.Book) *dto.BookRequest { return req })
}

func (s *bookService) Patch(ctx context.Context, id uuid.UUID, req *dto.BookPatchRequest) (*dto.BookResponse, error) {
	return s.update(ctx, id, req.Merge)
}

// update builds the request from the locked row, so a patch merges onto current values.
func (s *bookService) update(ctx context.Context, id uuid.UUID, build func(*entity.Book) *dto.BookRequest) (*dto.BookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Lock so an edit cannot overwrite a concurrent borrow or return.
	book, err := uow.BookRepository().FindOneForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NotFound("book", id)
	}
	if err := s.apply(ctx, uow, book, build(book)); err != nil {
		return nil, err
	}
	book.UpdatedAt = timeNow()

	if err := uow.BookRepository().Update(ctx, book); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	resp := dto.NewBookResponse(book)
	return &resp, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.find(ctx, uow, id); err != nil {
		return err
	}
	return uow.BookRepository().Delete(ctx, id)
}
