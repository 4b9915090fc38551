package implementation

import (
	"context"
	"errors"
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/mapper"
	"library-service-be/internal/model"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/repository/contract"
	"library-service-be/internal/repository/scope"
	"library-service-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *PaymentRepositoryImpl) withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Borrowing").Preload("Borrowing.Book").Preload("Borrowing.User")
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *entity.Payment) error {
	m := r.mapper.ToModel(payment)
	if err := r.db.WithContext(ctx).Omit("Borrowing").Create(m).Error; err != nil {
		return apperror.TranslateDBError(err, "payment session")
	}
	payment.Id = m.Id
	payment.CreatedAt = m.CreatedAt
	payment.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PaymentRepositoryImpl) Update(ctx context.Context, payment *entity.Payment) error {
	m := r.mapper.ToModel(payment)
	if err := r.db.WithContext(ctx).Omit("Borrowing").Save(m).Error; err != nil {
		return apperror.TranslateDBError(err, "payment session")
	}
	payment.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	var m model.Payment
	query := applySpecifications(r.withAssociations(r.db.WithContext(ctx)), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var m model.Payment
	err := r.db.WithContext(ctx).Scopes(scope.ForUpdate).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var models []*model.Payment
	query := applySpecifications(r.withAssociations(r.db.WithContext(ctx)), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PaymentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Payment{}), countable(specs)...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PaymentRepositoryImpl) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("status = ? AND expires_at < ?", string(entity.PaymentStatusPending), now).
		Updates(map[string]interface{}{
			"status":     string(entity.PaymentStatusExpired),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
