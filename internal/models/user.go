package models

import "time"

// User is a registered account together with its like relation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // don’t expose hash
	Likes        int       `json:"likes"`
	LikedBy      []string  `json:"likedBy"` // ids of users who liked this one
	CreatedAt    time.Time `json:"createdAt"`
}

// HasLiker reports whether id is among the users who liked u.
func (u *User) HasLiker(id string) bool {
	for _, l := range u.LikedBy {
		if l == id {
			return true
		}
	}
	return false
}
