package service

import (
	"context"
	"time"

	"likes_service/internal/logger"
	"likes_service/internal/models"
	"likes_service/internal/repository"
)

// Authorization signs and verifies session tokens.
type Authorization interface {
	IssueToken(id Identity, ttl time.Duration) (string, error)
	ParseToken(accessToken string) (Identity, error)
}

// Account exposes signup, signin and operations on the caller's own record.
type Account interface {
	SignUp(ctx context.Context, username, password string) (*models.User, string, error)
	SignIn(ctx context.Context, username, password string) (*models.User, string, error)
	Me(ctx context.Context, id string) (*models.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
}

// Relationship exposes the like relation and the leaderboard.
type Relationship interface {
	FetchUser(ctx context.Context, id string) (*models.User, error)
	Like(ctx context.Context, actorID, targetID string) (*models.User, error)
	Unlike(ctx context.Context, actorID, targetID string) (*models.User, error)
	MostLiked(ctx context.Context) ([]models.User, error)
}

// ActivityLog exposes the append-only per-user event history.
type ActivityLog interface {
	Record(ctx context.Context, e models.AccountEvent)
	List(ctx context.Context, userID string, f LogFilter) ([]models.AccountEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Account
	Relationship
	ActivityLog
}

// Options carries the process settings the services need.
type Options struct {
	SigningKey string
	BcryptCost int
	Log        *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	auth := NewAuthService(opts.SigningKey)
	activity := NewActivityService(repos.Events, opts.Log)
	return &Service{
		Authorization: auth,
		Account:       NewAccountService(repos.Users, NewBcryptHasher(opts.BcryptCost), auth, activity),
		Relationship:  NewRelationshipService(repos.Users, activity),
		ActivityLog:   activity,
	}
}
