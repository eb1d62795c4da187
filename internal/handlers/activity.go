package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"likes_service/internal/models"
	"likes_service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// ActivityResponse lists the caller's account events.
type ActivityResponse struct {
	Count  int                   `json:"count"`
	Events []models.AccountEvent `json:"events"`
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      Account activity
// @Description  Lists the caller's events, oldest first. Dates accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day.
// @Tags         account
// @Produce      json
// @Param        from  query     string  false  "Start of range"  example(2025-08-01)
// @Param        to    query     string  false  "End of range"    example(2025-08-31)
// @Param        type  query     string  false  "Event type"      Enums(SIGNUP,SIGNIN,PASSWORD_CHANGE,LIKE,UNLIKE)
// @Success      200   {object}  ActivityResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /me/activity [get]
// @Security     CookieAuth
func (h *Handler) getActivity(c *gin.Context) {
	id, _ := currentIdentity(c)

	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			abortWithError(c, http.StatusBadRequest, errFromInvalid, "from")
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			abortWithError(c, http.StatusBadRequest, errToInvalid, "to")
			return
		}
		// If the user didn't include a time component, treat "to" as the end of that day.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	events, err := h.services.ActivityLog.List(c.Request.Context(), id.ID, service.LogFilter{
		From: from,
		To:   to,
		Type: c.Query("type"),
	})
	if err != nil {
		h.respondError(c, "activity_list_failed", err, "user_id", id.ID, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, ActivityResponse{Count: len(events), Events: events})
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
