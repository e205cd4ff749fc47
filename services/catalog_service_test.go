package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/inherbver/herbisveritas-sub008/cache"
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// countingProductRepo counts repository hits so tests can tell cache hits
// from database reads.

type countingProductRepo struct {
	products map[string]models.Product

	findAllCalls  int
	findByIDCalls int
	findSlugCalls int
}

func newCountingProductRepo() *countingProductRepo {
	return &countingProductRepo{products: make(map[string]models.Product)}
}

func (r *countingProductRepo) add(p models.Product) {
	r.products[p.ID.String()] = p
}

func (r *countingProductRepo) FindAll(_ context.Context, _ repository.ProductFilter) ([]models.Product, int64, error) {
	r.findAllCalls++
	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *countingProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.findByIDCalls++
	if p, ok := r.products[id.String()]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *countingProductRepo) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	r.findSlugCalls++
	for _, p := range r.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *countingProductRepo) FindByIDs(_ context.Context, _ []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (r *countingProductRepo) Create(_ context.Context, p *models.Product) error {
	p.ID = uuid.New()
	r.products[p.ID.String()] = *p
	return nil
}

func (r *countingProductRepo) Update(_ context.Context, p *models.Product) error {
	r.products[p.ID.String()] = *p
	return nil
}

func (r *countingProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id.String())
	return nil
}

type countingCategoryRepo struct {
	categories   []models.Category
	findAllCalls int
}

func (r *countingCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) {
	r.findAllCalls++
	return r.categories, nil
}

func (r *countingCategoryRepo) Create(_ context.Context, c *models.Category) error {
	c.ID = uuid.New()
	r.categories = append(r.categories, *c)
	return nil
}

func newCatalogFixture(t *testing.T) (services.CatalogService, *countingProductRepo, *countingCategoryRepo) {
	t.Helper()
	productRepo := newCountingProductRepo()
	categoryRepo := &countingCategoryRepo{}
	logger, _ := zap.NewDevelopment()
	svc := services.NewCatalogService(productRepo, categoryRepo, cache.New(100), time.Minute, logger)
	return svc, productRepo, categoryRepo
}

// ---- tests ----

func TestListProducts_SecondReadServedFromCache(t *testing.T) {
	svc, productRepo, _ := newCatalogFixture(t)
	productRepo.add(models.Product{ID: uuid.New(), Name: "Tisane", Slug: "tisane", Active: true})

	_, total, svcErr := svc.ListProducts(context.Background(), repository.ProductFilter{})
	assert.Nil(t, svcErr)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 1, productRepo.findAllCalls)

	_, _, svcErr = svc.ListProducts(context.Background(), repository.ProductFilter{})
	assert.Nil(t, svcErr)
	assert.Equal(t, 1, productRepo.findAllCalls, "identical listing must come from the cache")
}

func TestListProducts_DifferentFiltersCacheSeparately(t *testing.T) {
	svc, productRepo, _ := newCatalogFixture(t)
	productRepo.add(models.Product{ID: uuid.New(), Name: "Tisane", Slug: "tisane", Active: true})

	_, _, _ = svc.ListProducts(context.Background(), repository.ProductFilter{})
	_, _, _ = svc.ListProducts(context.Background(), repository.ProductFilter{CategorySlug: "tisanes"})

	assert.Equal(t, 2, productRepo.findAllCalls, "a different filter is a different cache entry")
}

func TestCreateProduct_InvalidatesListings(t *testing.T) {
	svc, productRepo, _ := newCatalogFixture(t)
	productRepo.add(models.Product{ID: uuid.New(), Name: "Tisane", Slug: "tisane", Active: true})

	_, _, _ = svc.ListProducts(context.Background(), repository.ProductFilter{})
	assert.Equal(t, 1, productRepo.findAllCalls)

	_, svcErr := svc.CreateProduct(context.Background(), &models.CreateProductRequest{
		Name: "Baume", Slug: "baume", Price: decimal.NewFromFloat(10), Stock: 5,
	})
	assert.Nil(t, svcErr)

	_, total, _ := svc.ListProducts(context.Background(), repository.ProductFilter{})
	assert.Equal(t, 2, productRepo.findAllCalls, "a mutation must force the next listing back to the repository")
	assert.Equal(t, int64(2), total)
}

func TestGetProduct_DetailCachedUntilUpdate(t *testing.T) {
	svc, productRepo, _ := newCatalogFixture(t)
	p := models.Product{ID: uuid.New(), Name: "Tisane", Slug: "tisane", Active: true}
	productRepo.add(p)

	_, svcErr := svc.GetProduct(context.Background(), p.ID)
	assert.Nil(t, svcErr)
	_, svcErr = svc.GetProduct(context.Background(), p.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, 1, productRepo.findByIDCalls)

	newName := "Tisane bio"
	_, svcErr = svc.UpdateProduct(context.Background(), p.ID, &models.UpdateProductRequest{Name: &newName})
	assert.Nil(t, svcErr)

	got, svcErr := svc.GetProduct(context.Background(), p.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, "Tisane bio", got.Name, "stale detail must not survive an update")
}

func TestGetProduct_UnknownIs404(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	product, svcErr := svc.GetProduct(context.Background(), uuid.New())

	assert.Nil(t, product)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestUpdateProduct_SlugChangeDropsOldSlugEntry(t *testing.T) {
	svc, productRepo, _ := newCatalogFixture(t)
	p := models.Product{ID: uuid.New(), Name: "Tisane", Slug: "tisane", Active: true}
	productRepo.add(p)

	_, svcErr := svc.GetProductBySlug(context.Background(), "tisane")
	assert.Nil(t, svcErr)

	newSlug := "tisane-bio"
	_, svcErr = svc.UpdateProduct(context.Background(), p.ID, &models.UpdateProductRequest{Slug: &newSlug})
	assert.Nil(t, svcErr)

	_, svcErr = svc.GetProductBySlug(context.Background(), "tisane")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode, "the old slug must not resolve from a stale cache entry")
}

func TestCreateProduct_NegativePriceRejected(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	_, svcErr := svc.CreateProduct(context.Background(), &models.CreateProductRequest{
		Name: "Baume", Slug: "baume", Price: decimal.NewFromFloat(-1),
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestListCategories_CachedUntilCreate(t *testing.T) {
	svc, _, categoryRepo := newCatalogFixture(t)
	categoryRepo.categories = []models.Category{{ID: uuid.New(), Name: "Tisanes", Slug: "tisanes"}}

	_, svcErr := svc.ListCategories(context.Background())
	assert.Nil(t, svcErr)
	_, svcErr = svc.ListCategories(context.Background())
	assert.Nil(t, svcErr)
	assert.Equal(t, 1, categoryRepo.findAllCalls)

	_, svcErr = svc.CreateCategory(context.Background(), &models.CreateCategoryRequest{Name: "Baumes", Slug: "baumes"})
	assert.Nil(t, svcErr)

	categories, svcErr := svc.ListCategories(context.Background())
	assert.Nil(t, svcErr)
	assert.Equal(t, 2, categoryRepo.findAllCalls)
	assert.Len(t, categories, 2)
}
