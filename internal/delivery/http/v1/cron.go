package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/pipe-tracker/internal/reminder"
)

// HandleCron triggers a reminder evaluation run. The type query
// parameter selects which notification set to dispatch.
func (h *handlerImpl) HandleCron(c *gin.Context) {
	runType := c.DefaultQuery("type", reminder.TypeAll)

	result, err := h.runner.Run(c, runType)
	if err != nil {
		if errors.Is(err, reminder.ErrUnknownType) {
			abort(c, newBadRequestError("unknown reminder type"))
			return
		}

		h.logger.Error().
			Err(err).
			Str("type", runType).
			Msg("failed to run reminders")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"type":    runType,
		"sent":    result.Sent,
		"failed":  result.Failed,
	})
}
