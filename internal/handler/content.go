package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/middleware"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
)

// ContentHandler backs the library and calendar pages: saved scripts and
// previously generated plans.
type ContentHandler struct {
	repo   *repository.ContentRepository
	logger zerolog.Logger
}

func NewContentHandler(repo *repository.ContentRepository, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{repo: repo, logger: logger}
}

// Handles GET /api/v1/plans
func (h *ContentHandler) ListPlans(c *gin.Context) {
	plans, err := h.repo.ListPlans(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// Handles GET /api/v1/plans/:id/slots
func (h *ContentHandler) ListSlots(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador de plan inválido."})
		return
	}

	slots, err := h.repo.ListSlotsByPlan(c.Request.Context(), planID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// Handles GET /api/v1/scripts
func (h *ContentHandler) ListScripts(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	scripts, err := h.repo.ListScripts(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scripts": scripts, "limit": limit, "offset": offset})
}

// Handles POST /api/v1/slots/:id/scripted
func (h *ContentHandler) MarkScripted(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador de slot inválido."})
		return
	}

	if err := h.repo.MarkSlotScripted(c.Request.Context(), slotID); err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
