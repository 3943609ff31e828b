package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"qero-match/internal/domain"
	"qero-match/internal/metrics"
	"qero-match/internal/service"
)

// Tipos de error expuestos al dashboard, uno por mensaje distinto al operador.
const (
	kindNotFound     = "not_found"
	kindInvalidInput = "invalid_input"
	kindRateLimited  = "rate_limited"
	kindUpstream     = "upstream_failure"
)

// MatchHandler expone el motor de matching sobre HTTP.
type MatchHandler struct {
	logger *zap.Logger
	svc    *service.MatchService
}

func NewMatchHandler(logger *zap.Logger, svc *service.MatchService) *MatchHandler {
	return &MatchHandler{logger: logger, svc: svc}
}

// Match maneja POST /match.
func (h *MatchHandler) Match(c *gin.Context) {
	var req struct {
		ContactID string `json:"contact_id" binding:"required"`
		Role      string `json:"role" binding:"required"`
		Method    string `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid match request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "kind": kindInvalidInput})
		return
	}
	if _, err := uuid.Parse(req.ContactID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact_id", "kind": kindInvalidInput})
		return
	}

	// Label acotado: el body viene del cliente y no puede fabricar series
	// nuevas en prometheus.
	method := methodLabel(req.Method)
	metrics.MatchRequests.WithLabelValues(method).Inc()

	start := time.Now()
	result, err := h.svc.MatchCandidates(c.Request.Context(), service.MatchInput{
		ContactID: req.ContactID,
		RoleName:  req.Role,
		Method:    req.Method,
	})
	metrics.MatchDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		status, kind := matchErrorStatus(err)
		metrics.MatchFailures.WithLabelValues(method, kind).Inc()
		if status >= http.StatusInternalServerError {
			h.logger.Error("match failed", zap.Error(err), zap.String("contact_id", req.ContactID), zap.String("role", req.Role))
		} else {
			h.logger.Warn("match rejected", zap.Error(err), zap.String("contact_id", req.ContactID), zap.String("role", req.Role))
		}
		c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
		return
	}

	c.JSON(http.StatusOK, result)
}

// methodLabel normaliza el metodo pedido a uno de los tres labels fijos
// de metricas: points, ai o invalid.
func methodLabel(method string) string {
	switch m := strings.ToLower(strings.TrimSpace(method)); m {
	case "", domain.MethodPoints:
		return domain.MethodPoints
	case domain.MethodAI:
		return domain.MethodAI
	default:
		return "invalid"
	}
}

// matchErrorStatus mapea sentinels del servicio a status HTTP y tipo.
func matchErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrContactNotFound):
		return http.StatusNotFound, kindNotFound
	case errors.Is(err, service.ErrRoleUnknown), errors.Is(err, service.ErrInvalidMethod):
		return http.StatusBadRequest, kindInvalidInput
	case errors.Is(err, service.ErrAIRateLimited):
		return http.StatusTooManyRequests, kindRateLimited
	default:
		return http.StatusServiceUnavailable, kindUpstream
	}
}
