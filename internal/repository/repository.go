package repository

import (
	"context"
	"database/sql"
	"time"

	"likes_service/internal/models"
)

// UserRepo persists users and the like relation between them.
// Lookups return (nil, nil) when the user does not exist.
type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) (bool, error)
	AddLike(ctx context.Context, userID, likerID string) (bool, error)
	RemoveLike(ctx context.Context, userID, likerID string) (bool, error)
	ListByLikes(ctx context.Context) ([]models.User, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.AccountEvent) error
	List(ctx context.Context, userID string, from, to time.Time, typ string) ([]models.AccountEvent, error)
}

type Repository struct {
	Users  UserRepo
	Events EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserRepository(db),
		Events: NewEventSQLite(db),
	}
}
