package contract

import (
	"context"

	"library-service-be/internal/entity"
	"library-service-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AuthorRepository interface {
	Create(ctx context.Context, author *entity.Author) error
	Update(ctx context.Context, author *entity.Author) error
	// Delete removes the author and, by cascade, its books.
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Author, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Author, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
}
