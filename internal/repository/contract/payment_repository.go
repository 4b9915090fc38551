package contract

import (
	"context"
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ExpirePending flips every pending payment whose session expired before now
	// and returns how many rows changed.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}
