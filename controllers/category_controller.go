package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// CategoryController handles category reads and back-office category edits.
type CategoryController struct {
	catalogService services.CatalogService
}

// NewCategoryController creates a new CategoryController.
func NewCategoryController(svc services.CatalogService) *CategoryController {
	return &CategoryController{catalogService: svc}
}

// GetCategories handles GET /categories
func (cc *CategoryController) GetCategories(c *gin.Context) {
	categories, svcErr := cc.catalogService.ListCategories(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory handles POST /admin/categories
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := cc.catalogService.CreateCategory(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, category)
}
