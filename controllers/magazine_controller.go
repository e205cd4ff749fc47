package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inherbver/herbisveritas-sub008/middleware"
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// MagazineController serves rendered magazine content, and article
// administration for the back office.
type MagazineController struct {
	magazineService services.MagazineService
}

// NewMagazineController creates a new MagazineController.
func NewMagazineController(svc services.MagazineService) *MagazineController {
	return &MagazineController{magazineService: svc}
}

// GetArticles handles GET /magazine
func (mc *MagazineController) GetArticles(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	articles, total, svcErr := mc.magazineService.ListPublished(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"meta":     paginationMeta(page, limit, total),
	})
}

// GetArticle handles GET /magazine/:slug
func (mc *MagazineController) GetArticle(c *gin.Context) {
	view, svcErr := mc.magazineService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListAllArticles handles GET /admin/articles
func (mc *MagazineController) ListAllArticles(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	articles, total, svcErr := mc.magazineService.ListAll(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"meta":     paginationMeta(page, limit, total),
	})
}

// CreateArticle handles POST /admin/articles
func (mc *MagazineController) CreateArticle(c *gin.Context) {
	authorID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	article, svcErr := mc.magazineService.Create(c.Request.Context(), authorID, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, article)
}

// UpdateArticle handles PUT /admin/articles/:id
func (mc *MagazineController) UpdateArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	article, svcErr := mc.magazineService.Update(c.Request.Context(), id, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, article)
}

// PublishArticle handles POST /admin/articles/:id/publish
func (mc *MagazineController) PublishArticle(c *gin.Context) {
	mc.setPublished(c, true)
}

// UnpublishArticle handles POST /admin/articles/:id/unpublish
func (mc *MagazineController) UnpublishArticle(c *gin.Context) {
	mc.setPublished(c, false)
}

func (mc *MagazineController) setPublished(c *gin.Context, published bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	article, svcErr := mc.magazineService.SetPublished(c.Request.Context(), id, published)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, article)
}

// DeleteArticle handles DELETE /admin/articles/:id
func (mc *MagazineController) DeleteArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	if svcErr := mc.magazineService.Delete(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}
