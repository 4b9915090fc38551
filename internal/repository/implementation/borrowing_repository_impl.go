package implementation

import (
	"context"
	"errors"

	"library-service-be/internal/entity"
	"library-service-be/internal/mapper"
	"library-service-be/internal/model"
	"library-service-be/internal/repository/contract"
	"library-service-be/internal/repository/scope"
	"library-service-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BorrowingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BorrowingMapper
}

func NewBorrowingRepository(db *gorm.DB) contract.BorrowingRepository {
	return &BorrowingRepositoryImpl{
		db:     db,
		mapper: mapper.NewBorrowingMapper(),
	}
}

func (r *BorrowingRepositoryImpl) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Book").
		Preload("Book.Author").
		Preload("User").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

func (r *BorrowingRepositoryImpl) Create(ctx context.Context, borrowing *entity.Borrowing) error {
	m := r.mapper.ToModel(borrowing)
	if err := r.db.WithContext(ctx).Omit("Book", "User", "Payments").Create(m).Error; err != nil {
		return err
	}
	borrowing.Id = m.Id
	borrowing.CreatedAt = m.CreatedAt
	return nil
}

func (r *BorrowingRepositoryImpl) Update(ctx context.Context, borrowing *entity.Borrowing) error {
	m := r.mapper.ToModel(borrowing)
	return r.db.WithContext(ctx).Omit("Book", "User", "Payments").Save(m).Error
}

func (r *BorrowingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Borrowing, error) {
	var m model.Borrowing
	query := applySpecifications(r.withAssociations(r.db.WithContext(ctx)), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// FindOneForUpdate locks the borrowing row; associations are loaded without locks.
func (r *BorrowingRepositoryImpl) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Borrowing, error) {
	var m model.Borrowing
	err := r.db.WithContext(ctx).
		Scopes(scope.ForUpdate).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BorrowingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Borrowing, error) {
	var models []*model.Borrowing
	query := applySpecifications(r.withAssociations(r.db.WithContext(ctx)), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BorrowingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Borrowing{}), countable(specs)...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
