package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/models"
)

// Repository defines persistence operations for categories. Not-found is
// reported as (nil, nil); classifying it is the service's job.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// ListByParent returns the author's categories under parentID;
	// a nil parentID selects the root categories.
	ListByParent(ctx context.Context, authorID uuid.UUID, parentID *uuid.UUID) ([]models.Category, error)
	// CountItemsByAuthor counts every item the author owns, across all
	// categories. Listings report this as their total.
	CountItemsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	Create(ctx context.Context, c *models.Category) error
	Save(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, c *models.Category) error
}

// GormRepository implements Repository on a relational store.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) ListByParent(ctx context.Context, authorID uuid.UUID, parentID *uuid.UUID) ([]models.Category, error) {
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var cats []models.Category
	if err := q.Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepository) CountItemsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Where("author_id = ?", authorID).Count(&total).Error
	return total, err
}

func (r *GormRepository) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormRepository) Save(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *GormRepository) Delete(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Delete(c).Error
}
