package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inherbver/herbisveritas-sub008/metrics"
)

// MetricsController exposes webhook processing metrics to the back office.
type MetricsController struct {
	webhookMetrics *metrics.WebhookMetrics
}

// NewMetricsController creates a new MetricsController.
func NewMetricsController(m *metrics.WebhookMetrics) *MetricsController {
	return &MetricsController{webhookMetrics: m}
}

// GetMetrics handles GET /admin/metrics
func (mc *MetricsController) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"webhooks": mc.webhookMetrics.Snapshot()})
}
