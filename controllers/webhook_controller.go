package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/inherbver/herbisveritas-sub008/metrics"
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
	"github.com/inherbver/herbisveritas-sub008/services"
)

const webhookProvider = "stripe"

// WebhookController receives payment-provider webhooks. The response code is
// the contract with the provider's retry loop: 200 acknowledges (processed or
// already processed), 400 rejects for good, 5xx asks for redelivery.
type WebhookController struct {
	Parser   services.WebhookParser
	Checkout services.CheckoutService
	Events   repository.WebhookEventRepository
	Metrics  *metrics.WebhookMetrics
	Logger   *zap.Logger
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(
	parser services.WebhookParser,
	checkout services.CheckoutService,
	events repository.WebhookEventRepository,
	m *metrics.WebhookMetrics,
	logger *zap.Logger,
) *WebhookController {
	return &WebhookController{
		Parser:   parser,
		Checkout: checkout,
		Events:   events,
		Metrics:  m,
		Logger:   logger,
	}
}

// HandleStripeWebhook verifies and dispatches one Stripe webhook delivery.
func (wc *WebhookController) HandleStripeWebhook(c *gin.Context) {
	start := time.Now()
	wc.Metrics.RecordReceived()

	event, err := wc.Parser.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		wc.Metrics.RecordPermanentFailure()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)
	wc.recordDelivery(c, event)

	switch event.Type {
	case "checkout.session.completed":
		wc.handleCheckoutCompleted(c, event, start)
	default:
		wc.Logger.Info("Ignoring webhook event type", zap.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func (wc *WebhookController) handleCheckoutCompleted(c *gin.Context, event stripe.Event, start time.Time) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Warn("Failed to unmarshal checkout session", zap.String("event_id", event.ID), zap.Error(err))
		wc.finish(c, event, "malformed checkout session payload")
		wc.Metrics.RecordPermanentFailure()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
		return
	}

	paymentEvent := models.PaymentEvent{
		EventID:     event.ID,
		SessionID:   sess.ID,
		CartRef:     sess.Metadata["cart_ref"],
		UserID:      sess.Metadata["user_id"],
		AmountTotal: sess.AmountTotal,
		Currency:    string(sess.Currency),
	}
	if sess.PaymentIntent != nil {
		paymentEvent.PaymentRef = sess.PaymentIntent.ID
	}

	result, svcErr := wc.Checkout.MaterializeOrder(c.Request.Context(), paymentEvent)
	if svcErr != nil {
		wc.finish(c, event, svcErr.Message)
		if svcErr.StatusCode >= 500 {
			wc.Metrics.RecordTransientFailure()
		} else {
			wc.Metrics.RecordPermanentFailure()
		}
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	wc.finish(c, event, "")
	switch result.Outcome {
	case services.OutcomeAlreadyProcessed:
		wc.Metrics.RecordDuplicate(time.Since(start))
		c.JSON(http.StatusOK, gin.H{"status": "already processed", "session_id": sess.ID})
	default:
		wc.Metrics.RecordCreated(time.Since(start))
		c.JSON(http.StatusOK, gin.H{"status": "order created", "session_id": sess.ID})
	}
}

// recordDelivery appends the event to the audit log. Best effort only; the
// unique (provider, event_id) index absorbs redeliveries and a failed insert
// must never block processing.
func (wc *WebhookController) recordDelivery(c *gin.Context, event stripe.Event) {
	record := &models.WebhookEvent{
		Provider:        webhookProvider,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		SignatureValid:  true,
	}
	if err := wc.Events.Record(c.Request.Context(), record); err != nil {
		wc.Logger.Warn("Failed to record webhook delivery",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}

// finish stamps the audit record with the processing outcome.
func (wc *WebhookController) finish(c *gin.Context, event stripe.Event, processingError string) {
	if err := wc.Events.MarkProcessed(c.Request.Context(), webhookProvider, event.ID, processingError); err != nil {
		wc.Logger.Warn("Failed to mark webhook delivery processed",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}
