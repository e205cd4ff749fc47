package services

import (
	"context"
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
	productCachePrefix     = "product:detail:"
	productSlugCachePrefix = "product:slug:"
	productListCachePrefix = "products:v"
	categoriesCacheKey     = "categories:all"
)

// CatalogService defines the interface for catalog business logic. Read paths
// go through the injected cache; a miss re-reads the repository, so the cache
// is never load-bearing for correctness.
type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, *ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError
	ListCategories(ctx context.Context) ([]models.Category, *ServiceError)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *ServiceError)
}

type cachedProductList struct {
	products []models.Product
	total    int64
}

// catalogServiceImpl implements CatalogService.
type catalogServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
	cacheTTL     time.Duration
	listVersion  atomic.Int64
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	c *cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        c,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// listCacheKey embeds the current list version: bumping the version on any
// mutation orphans every older list entry instead of hunting them down.
func (s *catalogServiceImpl) listCacheKey(filter repository.ProductFilter) string {
	featured := "any"
	if filter.Featured != nil {
		featured = fmt.Sprintf("%t", *filter.Featured)
	}
	return fmt.Sprintf("%s%d:p%d:l%d:c%s:f%s",
		productListCachePrefix, s.listVersion.Load(),
		filter.Page, filter.Limit, filter.CategorySlug, featured,
	)
}

func (s *catalogServiceImpl) invalidateProduct(product *models.Product) {
	s.listVersion.Add(1)
	if product != nil {
		s.cache.Delete(productCachePrefix + product.ID.String())
		s.cache.Delete(productSlugCachePrefix + product.Slug)
	}
}

// ListProducts returns a page of active products.
func (s *catalogServiceImpl) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	key := s.listCacheKey(filter)
	if cached, ok := s.cache.Get(key); ok {
		if list, ok := cached.(cachedProductList); ok {
			return list.products, list.total, nil
		}
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list products"}
	}

	s.cache.Set(key, cachedProductList{products: products, total: total}, s.cacheTTL)
	return products, total, nil
}

// GetProduct returns one active product by ID.
func (s *catalogServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	key := productCachePrefix + id.String()
	if cached, ok := s.cache.Get(key); ok {
		if product, ok := cached.(*models.Product); ok {
			return product, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get product"}
	}
	if product == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	s.cache.Set(key, product, s.cacheTTL)
	return product, nil
}

// GetProductBySlug returns one product by its URL slug.
func (s *catalogServiceImpl) GetProductBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError) {
	key := productSlugCachePrefix + slug
	if cached, ok := s.cache.Get(key); ok {
		if product, ok := cached.(*models.Product); ok {
			return product, nil
		}
	}

	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to get product", zap.String("slug", slug), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get product"}
	}
	if product == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	s.cache.Set(key, product, s.cacheTTL)
	return product, nil
}

// CreateProduct adds a catalog item.
func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	product := &models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Featured:    req.Featured,
		Active:      true,
		CategoryID:  req.CategoryID,
	}
	if product.Price.IsNegative() {
		return nil, &ServiceError{StatusCode: 400, Message: "Price cannot be negative"}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if isDuplicateErr(err) {
			return nil, &ServiceError{StatusCode: 409, Message: "Product slug already exists"}
		}
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}

	s.invalidateProduct(product)
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("slug", product.Slug))
	return product, nil
}

// UpdateProduct edits a catalog item. Absent request fields stay untouched.
func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get product"}
	}
	if product == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	oldSlug := product.Slug

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Slug != nil {
		product.Slug = *req.Slug
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, &ServiceError{StatusCode: 400, Message: "Price cannot be negative"}
		}
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "Stock cannot be negative"}
		}
		product.Stock = *req.Stock
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if isDuplicateErr(err) {
			return nil, &ServiceError{StatusCode: 409, Message: "Product slug already exists"}
		}
		s.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}

	s.invalidateProduct(product)
	s.cache.Delete(productSlugCachePrefix + oldSlug)
	s.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	return product, nil
}

// DeleteProduct soft deletes a catalog item.
func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get product", zap.String("product_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to get product"}
	}
	if product == nil {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}

	s.invalidateProduct(product)
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// ListCategories returns every category.
func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]models.Category, *ServiceError) {
	if cached, ok := s.cache.Get(categoriesCacheKey); ok {
		if categories, ok := cached.([]models.Category); ok {
			return categories, nil
		}
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list categories"}
	}

	s.cache.Set(categoriesCacheKey, categories, s.cacheTTL)
	return categories, nil
}

// CreateCategory adds a category.
func (s *catalogServiceImpl) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *ServiceError) {
	category := &models.Category{Name: req.Name, Slug: req.Slug}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if isDuplicateErr(err) {
			return nil, &ServiceError{StatusCode: 409, Message: "Category slug already exists"}
		}
		s.logger.Error("Failed to create category", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create category"}
	}

	s.cache.Delete(categoriesCacheKey)
	s.logger.Info("Category created", zap.String("slug", category.Slug))
	return category, nil
}
