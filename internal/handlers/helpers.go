package handlers

import (
	"errors"
	"net/http"
	"time"

	"kanban-board/backend/internal/middleware"
	"kanban-board/backend/internal/models"
	"kanban-board/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const dateLayout = "2006-01-02"

func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user in request context"})
		return nil, false
	}
	return user, true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id format"})
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, services.NewValidationError("due_date", "due_date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// respondError maps service errors onto the response taxonomy: missing
// targets are 404, field-scoped validation failures are 400 with a per-field
// detail map, everything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		if verr, ok := services.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation failed",
				"details": verr.Fields,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
	}
}

func respondDenied(c *gin.Context, decision *services.Decision) {
	c.JSON(http.StatusForbidden, gin.H{
		"error":  "forbidden",
		"reason": decision.Reason,
	})
}

// authorize runs a policy check and writes the error/denial response itself.
// It returns true only when the handler may proceed.
func authorize(c *gin.Context, policy services.Policy, actor *models.User, action services.Action, targetID uuid.UUID) bool {
	decision, err := policy.Can(c.Request.Context(), actor, action, targetID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return false
	}
	return true
}
