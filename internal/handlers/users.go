package handlers

import (
	"context"
	"fmt"
	"net/http"

	"likes_service/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	msgMostLiked = "Users with most likes descending order."
)

// UsersResponse wraps the leaderboard.
type UsersResponse struct {
	Msg   string        `json:"msg"`
	Users []models.User `json:"users"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Fetch user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id (UUID)"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/{id} [get]
func (h *Handler) fetchUser(c *gin.Context) {
	id := c.Param("id")

	user, err := h.services.FetchUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "user_fetch_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user})
}

// @Summary      Like user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id (UUID)"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/{id}/like [put]
// @Security     CookieAuth
func (h *Handler) likeUser(c *gin.Context) {
	h.toggleLike(c, "liked", "user_like_failed", h.services.Like)
}

// @Summary      Unlike user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id (UUID)"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/{id}/unlike [put]
// @Security     CookieAuth
func (h *Handler) unlikeUser(c *gin.Context) {
	h.toggleLike(c, "unliked", "user_unlike_failed", h.services.Unlike)
}

func (h *Handler) toggleLike(c *gin.Context, verb, logKey string, op func(ctx context.Context, actorID, targetID string) (*models.User, error)) {
	actor, _ := currentIdentity(c)
	target := c.Param("id")

	user, err := op(c.Request.Context(), actor.ID, target)
	if err != nil {
		h.respondError(c, logKey, err, "actor_id", actor.ID, "target_id", target)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Msg: fmt.Sprintf("User %s - %s", user.Username, verb)})
}

// @Summary      Most liked users
// @Description  All users ordered by like count, descending.
// @Tags         users
// @Produce      json
// @Success      200  {object}  UsersResponse
// @Failure      500  {object}  errorResponse
// @Router       /most-liked [get]
func (h *Handler) mostLiked(c *gin.Context) {
	users, err := h.services.MostLiked(c.Request.Context())
	if err != nil {
		h.respondError(c, "users_most_liked_failed", err)
		return
	}
	c.JSON(http.StatusOK, UsersResponse{Msg: msgMostLiked, Users: users})
}
