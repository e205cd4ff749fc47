package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// ProductController handles catalog reads and back-office catalog edits.
type ProductController struct {
	catalogService services.CatalogService
}

// NewProductController creates a new ProductController.
func NewProductController(svc services.CatalogService) *ProductController {
	return &ProductController{catalogService: svc}
}

// GetProducts handles GET /products
func (pc *ProductController) GetProducts(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	filter := repository.ProductFilter{
		CategorySlug: c.Query("category"),
		Page:         page,
		Limit:        limit,
	}
	if featured := c.Query("featured"); featured == "true" {
		f := true
		filter.Featured = &f
	} else if featured == "false" {
		f := false
		filter.Featured = &f
	}

	products, total, svcErr := pc.catalogService.ListProducts(c.Request.Context(), filter)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"meta":     paginationMeta(page, limit, total),
	})
}

// GetProduct handles GET /products/:id, accepting a uuid or a slug.
func (pc *ProductController) GetProduct(c *gin.Context) {
	ref := c.Param("id")

	if id, err := uuid.Parse(ref); err == nil {
		product, svcErr := pc.catalogService.GetProduct(c.Request.Context(), id)
		if svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, product)
		return
	}

	product, svcErr := pc.catalogService.GetProductBySlug(c.Request.Context(), ref)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /admin/products
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.catalogService.CreateProduct(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/:id
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/:id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if svcErr := pc.catalogService.DeleteProduct(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
