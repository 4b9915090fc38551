package contract

import (
	"context"

	"library-service-be/internal/entity"
	"library-service-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BorrowingRepository interface {
	Create(ctx context.Context, borrowing *entity.Borrowing) error
	Update(ctx context.Context, borrowing *entity.Borrowing) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Borrowing, error)
	FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Borrowing, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Borrowing, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
