package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"qero-match/internal/repository"
)

// DirectoryHandler sirve los datos de referencia que necesita el modal de
// matching: lista de roles y la ficha del contacto.
type DirectoryHandler struct {
	logger   *zap.Logger
	roles    repository.RoleRepository
	contacts repository.ContactRepository
}

func NewDirectoryHandler(logger *zap.Logger, roles repository.RoleRepository, contacts repository.ContactRepository) *DirectoryHandler {
	return &DirectoryHandler{logger: logger, roles: roles, contacts: contacts}
}

// ListRoles maneja GET /roles.
func (h *DirectoryHandler) ListRoles(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list roles failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not list roles", "kind": kindUpstream})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// GetContact maneja GET /contacts/:id.
func (h *DirectoryHandler) GetContact(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id", "kind": kindInvalidInput})
		return
	}

	contact, err := h.contacts.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found", "kind": kindNotFound})
			return
		}
		h.logger.Error("get contact failed", zap.Error(err), zap.String("contact_id", id))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not load contact", "kind": kindUpstream})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}
