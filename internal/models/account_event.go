package models

import "time"

const (
	EventSignUp         = "SIGNUP"
	EventSignIn         = "SIGNIN"
	EventPasswordChange = "PASSWORD_CHANGE"
	EventLike           = "LIKE"
	EventUnlike         = "UNLIKE"
)

// AccountEvent is a single entry of a user's activity log.
type AccountEvent struct {
	EventID     string    `json:"eventId"`
	UserID      string    `json:"userId"`
	OccurredAt  time.Time `json:"occurredAt"`
	Type        string    `json:"type"`        // SIGNUP | SIGNIN | PASSWORD_CHANGE | LIKE | UNLIKE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
