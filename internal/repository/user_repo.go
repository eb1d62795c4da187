package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"likes_service/internal/models"

	"github.com/google/uuid"
)

// ErrDuplicateUsername is returned by Create when the UNIQUE(username)
// constraint rejects the insert.
var ErrDuplicateUsername = errors.New("username already exists")

// timestampLayout is fixed-width so stored timestamps compare lexically.
const timestampLayout = "2006-01-02 15:04:05.000000"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserRepository)(nil)

const (
	insertUserSQL         = `INSERT INTO users (id, username, password_hash, like_count, created_at) VALUES (?, ?, ?, 0, ?)`
	selectUserColumns     = `SELECT id, username, password_hash, like_count, created_at FROM users`
	selectUserByIDSQL     = selectUserColumns + ` WHERE id = ?`
	selectUserByNameSQL   = selectUserColumns + ` WHERE username = ?`
	selectUsersByLikesSQL = selectUserColumns + ` ORDER BY like_count DESC`
	updatePasswordSQL     = `UPDATE users SET password_hash = ? WHERE id = ?`

	selectLikersSQL    = `SELECT liker_id FROM user_likes WHERE user_id = ? ORDER BY created_at ASC`
	selectAllLikersSQL = `SELECT user_id, liker_id FROM user_likes ORDER BY created_at ASC`
	insertLikeSQL      = `INSERT INTO user_likes (user_id, liker_id, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id, liker_id) DO NOTHING`
	deleteLikeSQL      = `DELETE FROM user_likes WHERE user_id = ? AND liker_id = ?`
	incrementLikesSQL  = `UPDATE users SET like_count = like_count + 1 WHERE id = ?`
	decrementLikesSQL  = `UPDATE users SET like_count = like_count - 1 WHERE id = ?`
)

// Create inserts a new user. The store assigns the id and creation time,
// which are written back into u.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	u.Likes = 0
	u.LikedBy = []string{}

	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(timestampLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %q: %w", u.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

// GetByID fetches a user with its likers. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user by id %q: %w", id, err)
	}
	if u == nil {
		return nil, nil
	}
	if u.LikedBy, err = r.likers(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByNameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	if u == nil {
		return nil, nil
	}
	if u.LikedBy, err = r.likers(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePasswordHash replaces the stored hash. Returns false if no user has id.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, updatePasswordSQL, hash, id)
	if err != nil {
		return false, fmt.Errorf("update password for %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for %q: %w", id, err)
	}
	return n > 0, nil
}

// AddLike records likerID in userID's likers and bumps the counter in one
// transaction. Returns false, without changes, if the like already exists.
func (r *UserRepository) AddLike(ctx context.Context, userID, likerID string) (bool, error) {
	now := time.Now().UTC().Format(timestampLayout)
	return r.toggleLike(ctx, userID, likerID, "add like", insertLikeSQL, incrementLikesSQL, userID, likerID, now)
}

// RemoveLike is the inverse of AddLike. Returns false if there was no like.
func (r *UserRepository) RemoveLike(ctx context.Context, userID, likerID string) (bool, error) {
	return r.toggleLike(ctx, userID, likerID, "remove like", deleteLikeSQL, decrementLikesSQL, userID, likerID)
}

func (r *UserRepository) toggleLike(ctx context.Context, userID, likerID, op, relationSQL, counterSQL string, args ...any) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s %s->%s: begin: %w", op, likerID, userID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, relationSQL, args...)
	if err != nil {
		return false, fmt.Errorf("%s %s->%s: %w", op, likerID, userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s %s->%s: rows affected: %w", op, likerID, userID, err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, counterSQL, userID); err != nil {
		return false, fmt.Errorf("%s %s->%s: update counter: %w", op, likerID, userID, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s %s->%s: commit: %w", op, likerID, userID, err)
	}
	return true, nil
}

// ListByLikes returns every user ordered by like count, most liked first.
// Ties keep the store's order.
func (r *UserRepository) ListByLikes(ctx context.Context) ([]models.User, error) {
	out, err := r.usersByLikes(ctx)
	if err != nil {
		return nil, err
	}

	// Queried only after the user rows are closed: the pool holds one connection.
	likers, err := r.allLikers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if l, ok := likers[out[i].ID]; ok {
			out[i].LikedBy = l
		}
	}
	return out, nil
}

func (r *UserRepository) usersByLikes(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersByLikesSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.LikedBy = []string{}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *UserRepository) likers(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, selectLikersSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select likers of %q: %w", userID, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liker of %q: %w", userID, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select likers of %q: %w", userID, err)
	}
	return out, nil
}

func (r *UserRepository) allLikers(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, selectAllLikersSQL)
	if err != nil {
		return nil, fmt.Errorf("select likers: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var userID, likerID string
		if err := rows.Scan(&userID, &likerID); err != nil {
			return nil, fmt.Errorf("scan liker: %w", err)
		}
		out[userID] = append(out[userID], likerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select likers: %w", err)
	}
	return out, nil
}

// scanUser returns (nil, nil) on sql.ErrNoRows.
func scanUser(row interface {
	Scan(dest ...any) error
}) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Likes, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
