package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chatcart/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName = "chatcart-backend"
	// Version is reported by the health endpoint
	Version = "1.0.0"
)

// ChatRunner is the use case behind the chat endpoint
type ChatRunner interface {
	Run(ctx context.Context, message string) (*domain.ChatResponse, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	chat           ChatRunner
	logger         *zap.Logger
	requestTimeout time.Duration
}

// NewHandler creates a new HTTP handler. A nil chat runner makes the chat
// endpoint answer 501; requestTimeout of 0 disables the per-request deadline.
func NewHandler(chat ChatRunner, logger *zap.Logger, requestTimeout time.Duration) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chat:           chat,
		logger:         logger.Named("http"),
		requestTimeout: requestTimeout,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": Version,
	})
}

// Chat turns a shopping message into a reply and product list
func (h *Handler) Chat(c *gin.Context) {
	if h.chat == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Chat service not configured",
		})
		return
	}

	var request domain.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: message is required",
		})
		return
	}

	ctx := c.Request.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	response, err := h.chat.Run(ctx, request.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Preflight answers OPTIONS requests that carry no Origin header
func (h *Handler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: message must not be empty",
		})
	case errors.Is(err, domain.ErrUpstreamLLM):
		h.logger.Error("chat failed", zap.String("request_id", requestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to reach the language model",
		})
	default:
		h.logger.Error("chat failed", zap.String("request_id", requestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
