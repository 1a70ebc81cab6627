package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
)

type WaitlistHandler struct {
	repo   *repository.WaitlistRepository
	logger zerolog.Logger
}

func NewWaitlistHandler(repo *repository.WaitlistRepository, logger zerolog.Logger) *WaitlistHandler {
	return &WaitlistHandler{repo: repo, logger: logger}
}

// Handles POST /api/v1/waitlist. Signups always succeed from the caller's
// point of view: a storage failure is logged, never surfaced, so the landing
// page never shows an error to someone trying to join.
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req struct {
		Email  string `json:"email" binding:"required,email"`
		Source string `json:"source"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Introduce un email válido."})
		return
	}

	entry := &models.WaitlistEntry{Email: req.Email, Source: req.Source}
	if err := h.repo.Create(c.Request.Context(), entry); err != nil {
		h.logger.Error().Err(err).Str("email", req.Email).Msg("failed to store waitlist entry")
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
