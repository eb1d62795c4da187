package handlers

import (
	"errors"
	"net/http"

	"likes_service/internal/service"

	"github.com/gin-gonic/gin"
)

const errInternal = "internal server error"

// errorBody is the payload under "errors" in every failed response.
type errorBody struct {
	Msg   string `json:"msg" example:"user not found"`
	Param string `json:"param,omitempty" example:"id"`
}

type errorResponse struct {
	Errors errorBody `json:"errors"`
}

func abortWithError(c *gin.Context, code int, msg, param string) {
	c.AbortWithStatusJSON(code, errorResponse{Errors: errorBody{Msg: msg, Param: param}})
}

// statusFor maps a service error to its HTTP status and client-facing body.
// Anything unrecognized is a 500 with a generic message.
func statusFor(err error) (int, errorBody) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorBody{Msg: ve.Msg, Param: ve.Param}
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, errorBody{Msg: err.Error()}
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusBadRequest, errorBody{Msg: err.Error(), Param: "username"}
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSelfReference),
		errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrNotLiked),
		errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, errorBody{Msg: err.Error()}
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusForbidden, errorBody{Msg: msgInvalidToken}
	default:
		return http.StatusInternalServerError, errorBody{Msg: errInternal}
	}
}

// respondError writes the mapped error and logs it under logKey. Client
// errors are logged at info, server errors at error level.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code, body := statusFor(err)
	if h.log != nil {
		fields := append([]interface{}{"err", err, "status", code}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.AbortWithStatusJSON(code, errorResponse{Errors: body})
}
