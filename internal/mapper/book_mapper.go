package mapper

import (
	"library-service-be/internal/entity"
	"library-service-be/internal/model"

	"github.com/google/uuid"
)

type BookMapper struct {
	authors *AuthorMapper
}

func NewBookMapper() *BookMapper {
	return &BookMapper{authors: NewAuthorMapper()}
}

func (m *BookMapper) ToEntity(b *model.Book) *entity.Book {
	if b == nil {
		return nil
	}
	book := &entity.Book{
		Id:        b.Id,
		Title:     b.Title,
		AuthorId:  b.AuthorId,
		Cover:     entity.BookCover(b.Cover),
		Inventory: b.Inventory,
		DailyFee:  b.DailyFee,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	// Author is only set when it was preloaded.
	if b.Author.Id != uuid.Nil {
		book.Author = m.authors.ToEntity(&b.Author)
	}
	return book
}

func (m *BookMapper) ToModel(b *entity.Book) *model.Book {
	if b == nil {
		return nil
	}
	return &model.Book{
		Id:        b.Id,
		Title:     b.Title,
		AuthorId:  b.AuthorId,
		Cover:     string(b.Cover),
		Inventory: b.Inventory,
		DailyFee:  b.DailyFee,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (m *BookMapper) ToEntities(books []*model.Book) []*entity.Book {
	entities := make([]*entity.Book, len(books))
	for i, b := range books {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
