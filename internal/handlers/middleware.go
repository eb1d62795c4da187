package handlers

import (
	"net/http"
	"strings"
	"time"

	"likes_service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	tokenCookie = "token"
	identityKey = "identity"

	msgTokenNotProvided = "Token not provided"
	msgInvalidToken     = "Invalid token"
)

// authMiddleware verifies the session token from the "token" cookie, or
// from an "Authorization: Bearer" header when no cookie is sent. On success
// the identity is stored on both the gin and the request context.
func (h *Handler) authMiddleware(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		abortWithError(c, http.StatusForbidden, msgTokenNotProvided, "")
		return
	}

	id, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "err", err, "path", c.FullPath())
		}
		abortWithError(c, http.StatusForbidden, msgInvalidToken, "")
		return
	}

	c.Set(identityKey, id)
	c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), id))
	c.Next()
}

func sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(tokenCookie); err == nil && v != "" {
		return v
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// currentIdentity returns the identity set by authMiddleware. Handlers
// mounted behind the middleware can rely on ok being true.
func currentIdentity(c *gin.Context) (service.Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(service.Identity); ok {
			return id, true
		}
	}
	return service.IdentityFrom(c.Request.Context())
}

// requestLogger logs one line per request once the handler chain is done.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}
