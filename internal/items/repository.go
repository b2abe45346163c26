package items

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/models"
)

// Repository defines persistence operations for items. Not-found is reported
// as (nil, nil); classifying it is the service's job.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	// ListByAuthor returns the author's items, optionally restricted to one
	// category.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, categoryID *uuid.UUID) ([]models.Item, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	// CategoryExists is a raw existence probe, deliberately blind to
	// ownership.
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, i *models.Item) error
	Save(ctx context.Context, i *models.Item) error
	Delete(ctx context.Context, i *models.Item) error
}

// GormRepository implements Repository on a relational store.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var it models.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&it).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *GormRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, categoryID *uuid.UUID) ([]models.Item, error) {
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var its []models.Item
	if err := q.Find(&its).Error; err != nil {
		return nil, err
	}
	return its, nil
}

func (r *GormRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Where("author_id = ?", authorID).Count(&total).Error
	return total, err
}

func (r *GormRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *GormRepository) Create(ctx context.Context, i *models.Item) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *GormRepository) Save(ctx context.Context, i *models.Item) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *GormRepository) Delete(ctx context.Context, i *models.Item) error {
	return r.db.WithContext(ctx).Delete(i).Error
}
