package contract

import (
	"context"

	"library-service-be/internal/entity"
	"library-service-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error)
	// FindOneForUpdate locks the row until the transaction ends.
	FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// AdjustInventory adds delta to the inventory. It fails with
	// apperror.ErrOutOfStock instead of letting the inventory go negative.
	AdjustInventory(ctx context.Context, id uuid.UUID, delta int) error
}
