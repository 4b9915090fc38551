package implementation

import (
	"context"
	"errors"

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

type BookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookMapper
}

func NewBookRepository(db *gorm.DB) contract.BookRepository {
	return &BookRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookMapper(),
	}
}

func (r *BookRepositoryImpl) Create(ctx context.Context, book *entity.Book) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Omit("Author").Create(m).Error; err != nil {
		return apperror.TranslateDBError(err, "book")
	}
	book.Id = m.Id
	book.CreatedAt = m.CreatedAt
	book.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *BookRepositoryImpl) Update(ctx context.Context, book *entity.Book) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Omit("Author").Save(m).Error; err != nil {
		return apperror.TranslateDBError(err, "book")
	}
	book.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *BookRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Book{}).Error
}

func (r *BookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	var m model.Book
	query := applySpecifications(r.db.WithContext(ctx).Preload("Author"), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookRepositoryImpl) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var m model.Book
	err := r.db.WithContext(ctx).Scopes(scope.ForUpdate).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	var models []*model.Book
	query := applySpecifications(r.db.WithContext(ctx).Preload("Author"), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Book{}), countable(specs)...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookRepositoryImpl) AdjustInventory(ctx context.Context, id uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ? AND inventory + ? >= 0", id, delta).
		Update("inventory", gorm.Expr("inventory + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrOutOfStock
	}
	return nil
}
