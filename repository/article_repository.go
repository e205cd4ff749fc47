package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inherbver/herbisveritas-sub008/models"
)

// ArticleRepository defines the interface for magazine article data access
type ArticleRepository interface {
	FindPublished(ctx context.Context, page, limit int) ([]models.Article, int64, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Article, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormArticleRepository implements ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new instance of GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) ArticleRepository {
	return &GormArticleRepository{db: db}
}

// FindPublished retrieves published articles, newest first
func (r *GormArticleRepository) FindPublished(ctx context.Context, page, limit int) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("published = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("published_at DESC").
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

// FindPublishedBySlug retrieves one published article. Absent reads as (nil, nil).
func (r *GormArticleRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND published = ?", slug, true).
		First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// FindAll retrieves every article for the back office, drafts included
func (r *GormArticleRepository) FindAll(ctx context.Context, page, limit int) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Article{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("updated_at DESC").
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

// FindByID retrieves an article by primary key. Absent reads as (nil, nil).
func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// Create inserts a new article
func (r *GormArticleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// Update saves an existing article
func (r *GormArticleRepository) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

// Delete soft deletes an article
func (r *GormArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Article{}, "id = ?", id).Error
}
