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

type AuthorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuthorMapper
}

func NewAuthorRepository(db *gorm.DB) contract.AuthorRepository {
	return &AuthorRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuthorMapper(),
	}
}

func (r *AuthorRepositoryImpl) Create(ctx context.Context, author *entity.Author) error {
	m := r.mapper.ToModel(author)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperror.TranslateDBError(err, "author")
	}
	author.Id = m.Id
	author.CreatedAt = m.CreatedAt
	author.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AuthorRepositoryImpl) Update(ctx context.Context, author *entity.Author) error {
	m := r.mapper.ToModel(author)
	if err := r.db.WithContext(ctx).Omit("Books").Save(m).Error; err != nil {
		return apperror.TranslateDBError(err, "author")
	}
	author.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AuthorRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Author{}).Error
}

func (r *AuthorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Author, error) {
	var m model.Author
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Author{}).Scopes(scope.WithBooksCount), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AuthorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Author, error) {
	var models []*model.Author
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Author{}).Scopes(scope.WithBooksCount), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AuthorRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Author{}), countable(specs)...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuthorMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuthorMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.SubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Omit("User", "Author").Create(m).Error; err != nil {
		return apperror.TranslateDBError(err, "subscription")
	}
	subscription.Id = m.Id
	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Subscription{}).Error
}

func (r *SubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := applySpecifications(r.db.WithContext(ctx).Preload("Author"), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SubscriptionToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := applySpecifications(r.db.WithContext(ctx).Preload("Author"), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SubscriptionsToEntities(models), nil
}
