package handlers

import (
	"net/http"
	"time"

	"likes_service/internal/models"
	"likes_service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgSignedUp        = "User successfully created"
	msgSignedIn        = "Login successful"
	msgCurrentUser     = "Current user info"
	msgPasswordChanged = "Password successfully changed"

	errInvalidBody = "invalid request body"

	signInCookieMaxAge = int(service.SignInTokenTTL / time.Second)
)

// Credentials is the body of /signup and /signin. Length and presence rules
// are enforced by the account service so that errors carry the field name.
type Credentials struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"s3cr3t"`
}

// UpdatePasswordRequest is the body of /me/update-password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" example:"s3cr3t"`
	NewPassword     string `json:"newPassword" example:"n3w-s3cr3t"`
}

// AuthResponse is returned by /signup and /signin.
type AuthResponse struct {
	Msg   string       `json:"msg"`
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Msg  string       `json:"msg,omitempty"`
	User *models.User `json:"user"`
}

// MessageResponse carries only a human-readable message.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		abortWithError(c, http.StatusBadRequest, errInvalidBody, "")
		return false
	}
	return true
}

func setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, maxAge, "/", "", false, true)
}

// @Summary      Sign up
// @Description  Creates an account. Username and password must be 4-20 characters; the password is trimmed. Sets the "token" cookie with a non-expiring session token.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      Credentials  true  "Credentials"
// @Success      201   {object}  AuthResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var input Credentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, token, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, "auth_sign_up_failed", err, "username", input.Username)
		return
	}

	if h.log != nil {
		h.log.Infow("auth_signed_up", "user_id", user.ID, "username", user.Username)
	}
	setTokenCookie(c, token, 0)
	c.JSON(http.StatusCreated, AuthResponse{Msg: msgSignedUp, User: user, Token: token})
}

// @Summary      Sign in
// @Description  Verifies credentials and sets the "token" cookie, valid for one hour.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      Credentials  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /signin [post]
func (h *Handler) signIn(c *gin.Context) {
	var input Credentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, token, err := h.services.SignIn(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, "auth_sign_in_failed", err, "username", input.Username)
		return
	}

	setTokenCookie(c, token, signInCookieMaxAge)
	c.JSON(http.StatusOK, AuthResponse{Msg: msgSignedIn, User: user, Token: token})
}

// @Summary      Current user
// @Tags         account
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /me [get]
// @Security     CookieAuth
func (h *Handler) me(c *gin.Context) {
	id, _ := currentIdentity(c)

	user, err := h.services.Me(c.Request.Context(), id.ID)
	if err != nil {
		h.respondError(c, "account_me_failed", err, "user_id", id.ID)
		return
	}
	c.JSON(http.StatusOK, UserResponse{Msg: msgCurrentUser, User: user})
}

// @Summary      Change password
// @Description  Replaces the password after verifying the current one.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      UpdatePasswordRequest  true  "Passwords"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /me/update-password [put]
// @Security     CookieAuth
func (h *Handler) updatePassword(c *gin.Context) {
	id, _ := currentIdentity(c)

	var input UpdatePasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	err := h.services.ChangePassword(c.Request.Context(), id.ID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		h.respondError(c, "account_change_password_failed", err, "user_id", id.ID)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Msg: msgPasswordChanged})
}
