package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/apperr"
)

// fail writes the taxonomy status and client message for err, logging the
// full cause server-side.
func fail(c *gin.Context, logger zerolog.Logger, err error) {
	status := apperr.StatusFor(err)

	event := logger.Warn()
	if status >= 500 {
		event = logger.Error()
	}
	event.
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("request failed")

	c.JSON(status, gin.H{"error": apperr.MessageFor(err)})
}
