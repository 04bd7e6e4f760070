package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agropricing/waitlist-api/pkg/metrics"
	"github.com/agropricing/waitlist-api/pkg/middleware"
	"github.com/agropricing/waitlist-api/pkg/models"
	"github.com/agropricing/waitlist-api/pkg/services"
)

const newsletterStatus = "API Newsletter funcionando"

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	waitlistService services.WaitlistService
	log             *zap.SugaredLogger
	now             func() time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(waitlistService services.WaitlistService, log *zap.SugaredLogger) *Handlers {
	return &Handlers{
		waitlistService: waitlistService,
		log:             log,
		now:             time.Now,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// NewsletterHealth reports whether the provider credential is present.
func (h *Handlers) NewsletterHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewsletterHealth{
		Status:          newsletterStatus,
		Timestamp:       h.now().UTC(),
		BrevoConfigured: h.waitlistService.ProviderConfigured(),
	})
}

// Subscribe registers a waitlist submission posted by the landing page.
func (h *Handlers) Subscribe(c *gin.Context) {
	log := h.log.With("request_id", middleware.GetRequestID(c))

	var sub models.WaitlistSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		log.Infow("Rejected waitlist payload", "error", err)
		h.fail(c, &services.IntakeError{Status: http.StatusBadRequest, Message: services.MsgFieldsRequired, Cause: err})
		return
	}

	msg, err := h.waitlistService.Subscribe(c.Request.Context(), sub)
	if err != nil {
		intakeErr := services.ClassifyError(err)
		if intakeErr.Status >= http.StatusInternalServerError {
			log.Errorw("Waitlist submission failed", "status", intakeErr.Status, "error", err)
		} else {
			log.Infow("Waitlist submission rejected", "status", intakeErr.Status, "message", intakeErr.Message)
		}
		h.fail(c, intakeErr)
		return
	}

	metrics.SubmissionsTotal.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	c.JSON(http.StatusOK, models.SubscribeResponse{Success: true, Message: msg})
}

func (h *Handlers) fail(c *gin.Context, err *services.IntakeError) {
	metrics.SubmissionsTotal.WithLabelValues(strconv.Itoa(err.Status)).Inc()
	c.JSON(err.Status, models.ErrorResponse{Error: err.Message})
}
