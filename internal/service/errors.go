package service

import "errors"

// Domain errors for account and relationship flows.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUsernameTaken      = errors.New("username in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfReference      = errors.New("self reference")
	ErrAlreadyLiked       = errors.New("you have already liked this user")
	ErrNotLiked           = errors.New("cant unlike user, must like it first")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError reports malformed or missing input. Param names the
// offending field when there is one.
type ValidationError struct {
	Param string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(param, msg string) error {
	return &ValidationError{Param: param, Msg: msg}
}

// opError gives a sentinel an operation-specific message.
type opError struct {
	err error
	msg string
}

func (e *opError) Error() string { return e.msg }

func (e *opError) Unwrap() error { return e.err }

func wrapMsg(err error, msg string) error {
	return &opError{err: err, msg: msg}
}
