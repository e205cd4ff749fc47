package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inherbver/herbisveritas-sub008/middleware"
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// CartController handles the authenticated user's shopping cart and the
// checkout hand-off to the payment provider.
type CartController struct {
	cartService     services.CartService
	checkoutService services.CheckoutService
}

// NewCartController creates a new CartController.
func NewCartController(cartSvc services.CartService, checkoutSvc services.CheckoutService) *CartController {
	return &CartController{
		cartService:     cartSvc,
		checkoutService: checkoutSvc,
	}
}

// GetCart handles GET /cart
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	cart, svcErr := cc.cartService.GetCart(c.Request.Context(), userID.String())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/items
func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.AddItem(c.Request.Context(), userID.String(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PUT /cart/items/:product_id
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.UpdateItem(c.Request.Context(), userID.String(), c.Param("product_id"), req.Quantity)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/:product_id
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	cart, svcErr := cc.cartService.RemoveItem(c.Request.Context(), userID.String(), c.Param("product_id"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart handles DELETE /cart
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if svcErr := cc.cartService.ClearCart(c.Request.Context(), userID.String()); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// Checkout handles POST /cart/checkout
func (cc *CartController) Checkout(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	resp, svcErr := cc.checkoutService.CreateSession(c.Request.Context(), userID.String())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, resp)
}
