package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inherbver/herbisveritas-sub008/cache"
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
)

const (
	articleViewCachePrefix = "article:view:"
	articleListCachePrefix = "articles:v"
)

// MagazineService defines the interface for magazine business logic. Public
// reads render the stored rich document to HTML and cache the result.
type MagazineService interface {
	ListPublished(ctx context.Context, page, limit int) ([]models.ArticleSummary, int64, *ServiceError)
	GetBySlug(ctx context.Context, slug string) (*models.ArticleView, *ServiceError)
	ListAll(ctx context.Context, page, limit int) ([]models.Article, int64, *ServiceError)
	Create(ctx context.Context, authorID uuid.UUID, req *models.CreateArticleRequest) (*models.Article, *ServiceError)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateArticleRequest) (*models.Article, *ServiceError)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*models.Article, *ServiceError)
	Delete(ctx context.Context, id uuid.UUID) *ServiceError
}

type cachedArticleList struct {
	summaries []models.ArticleSummary
	total     int64
}

// magazineServiceImpl implements MagazineService.
type magazineServiceImpl struct {
	articleRepo repository.ArticleRepository
	renderer    *ArticleRenderer
	cache       *cache.Cache
	cacheTTL    time.Duration
	listVersion atomic.Int64
	logger      *zap.Logger
}

// NewMagazineService creates a new MagazineService.
func NewMagazineService(
	articleRepo repository.ArticleRepository,
	renderer *ArticleRenderer,
	c *cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) MagazineService {
	return &magazineServiceImpl{
		articleRepo: articleRepo,
		renderer:    renderer,
		cache:       c,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func (s *magazineServiceImpl) invalidate(slugs ...string) {
	s.listVersion.Add(1)
	for _, slug := range slugs {
		s.cache.Delete(articleViewCachePrefix + slug)
	}
}

// ListPublished returns a page of published article summaries, newest first.
func (s *magazineServiceImpl) ListPublished(ctx context.Context, page, limit int) ([]models.ArticleSummary, int64, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 12
	}

	key := fmt.Sprintf("%s%d:p%d:l%d", articleListCachePrefix, s.listVersion.Load(), page, limit)
	if cached, ok := s.cache.Get(key); ok {
		if list, ok := cached.(cachedArticleList); ok {
			return list.summaries, list.total, nil
		}
	}

	articles, total, err := s.articleRepo.FindPublished(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list articles", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list articles"}
	}

	summaries := make([]models.ArticleSummary, 0, len(articles))
	for i := range articles {
		summaries = append(summaries, s.renderer.Summary(&articles[i]))
	}

	s.cache.Set(key, cachedArticleList{summaries: summaries, total: total}, s.cacheTTL)
	return summaries, total, nil
}

// GetBySlug returns one published article rendered to HTML.
func (s *magazineServiceImpl) GetBySlug(ctx context.Context, slug string) (*models.ArticleView, *ServiceError) {
	key := articleViewCachePrefix + slug
	if cached, ok := s.cache.Get(key); ok {
		if view, ok := cached.(*models.ArticleView); ok {
			return view, nil
		}
	}

	article, err := s.articleRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to get article", zap.String("slug", slug), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get article"}
	}
	if article == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Article not found"}
	}

	view := s.renderer.View(article)
	s.cache.Set(key, view, s.cacheTTL)
	return view, nil
}

// ListAll returns every article for the back office, drafts included.
func (s *magazineServiceImpl) ListAll(ctx context.Context, page, limit int) ([]models.Article, int64, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	articles, total, err := s.articleRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list articles", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list articles"}
	}
	return articles, total, nil
}

// Create drafts a new article.
func (s *magazineServiceImpl) Create(ctx context.Context, authorID uuid.UUID, req *models.CreateArticleRequest) (*models.Article, *ServiceError) {
	if !json.Valid(req.Content) {
		return nil, &ServiceError{StatusCode: 400, Message: "Content must be a valid document"}
	}

	article := &models.Article{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  string(req.Content),
		CoverURL: req.CoverURL,
		AuthorID: authorID,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		if isDuplicateErr(err) {
			return nil, &ServiceError{StatusCode: 409, Message: "Article slug already exists"}
		}
		s.logger.Error("Failed to create article", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create article"}
	}

	s.invalidate(article.Slug)
	s.logger.Info("Article created", zap.String("article_id", article.ID.String()), zap.String("slug", article.Slug))
	return article, nil
}

// Update edits an article. Absent request fields stay untouched.
func (s *magazineServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.UpdateArticleRequest) (*models.Article, *ServiceError) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get article", zap.String("article_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get article"}
	}
	if article == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Article not found"}
	}
	oldSlug := article.Slug

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Slug != nil {
		article.Slug = *req.Slug
	}
	if req.Content != nil {
		if !json.Valid(req.Content) {
			return nil, &ServiceError{StatusCode: 400, Message: "Content must be a valid document"}
		}
		article.Content = string(req.Content)
	}
	if req.CoverURL != nil {
		article.CoverURL = *req.CoverURL
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		if isDuplicateErr(err) {
			return nil, &ServiceError{StatusCode: 409, Message: "Article slug already exists"}
		}
		s.logger.Error("Failed to update article", zap.String("article_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update article"}
	}

	s.invalidate(oldSlug, article.Slug)
	s.logger.Info("Article updated", zap.String("article_id", article.ID.String()))
	return article, nil
}

// SetPublished publishes or unpublishes an article.
func (s *magazineServiceImpl) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*models.Article, *ServiceError) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get article", zap.String("article_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get article"}
	}
	if article == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Article not found"}
	}

	article.Published = published
	if published {
		if article.PublishedAt == nil {
			now := time.Now()
			article.PublishedAt = &now
		}
	} else {
		article.PublishedAt = nil
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		s.logger.Error("Failed to update article", zap.String("article_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update article"}
	}

	s.invalidate(article.Slug)
	s.logger.Info("Article publication changed",
		zap.String("article_id", article.ID.String()),
		zap.Bool("published", published),
	)
	return article, nil
}

// Delete soft deletes an article.
func (s *magazineServiceImpl) Delete(ctx context.Context, id uuid.UUID) *ServiceError {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get article", zap.String("article_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to get article"}
	}
	if article == nil {
		return &ServiceError{StatusCode: 404, Message: "Article not found"}
	}

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete article", zap.String("article_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete article"}
	}

	s.invalidate(article.Slug)
	s.logger.Info("Article deleted", zap.String("article_id", id.String()))
	return nil
}
