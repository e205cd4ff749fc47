package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// UserController handles back-office user administration.
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController.
func NewUserController(svc services.UserService) *UserController {
	return &UserController{userService: svc}
}

// ListUsers handles GET /admin/users
func (uc *UserController) ListUsers(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	users, total, svcErr := uc.userService.ListUsers(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"meta":  paginationMeta(page, limit, total),
	})
}

// UpdateRole handles PATCH /admin/users/:id/role
func (uc *UserController) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req models.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, svcErr := uc.userService.UpdateRole(c.Request.Context(), id, req.Role)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, user)
}
