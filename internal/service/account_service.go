package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"likes_service/internal/models"
	"likes_service/internal/repository"
)

const (
	// SignInTokenTTL bounds tokens issued by SignIn. SignUp tokens never expire.
	SignInTokenTTL = time.Hour

	minCredentialLen = 4
	maxCredentialLen = 20
)

// TokenIssuer is the signing half of the session token codec.
type TokenIssuer interface {
	IssueToken(id Identity, ttl time.Duration) (string, error)
}

// AccountService implements signup, signin, me and password change.
type AccountService struct {
	users    repository.UserRepo
	hasher   PasswordHasher
	tokens   TokenIssuer
	activity ActivityLog
}

func NewAccountService(users repository.UserRepo, hasher PasswordHasher, tokens TokenIssuer, activity ActivityLog) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens, activity: activity}
}

// SignUp creates an account and returns it with a non-expiring token.
// The password is trimmed before validation and hashing.
func (s *AccountService) SignUp(ctx context.Context, username, password string) (*models.User, string, error) {
	password = strings.TrimSpace(password)
	if !lengthBetween(username, minCredentialLen, maxCredentialLen) {
		return nil, "", invalid("username", "username must be between 4 and 20 characters")
	}
	if !lengthBetween(password, minCredentialLen, maxCredentialLen) {
		return nil, "", invalid("password", "password must be between 4 and 20 characters")
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}
	u := &models.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost the race against a concurrent signup for the same name.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.IssueToken(Identity{ID: u.ID, Username: u.Username}, 0)
	if err != nil {
		return nil, "", err
	}

	s.record(ctx, u.ID, models.EventSignUp, "account created")
	return u, token, nil
}

// SignIn checks credentials and returns the user with a token valid for
// SignInTokenTTL. Unknown users and wrong passwords are indistinguishable.
func (s *AccountService) SignIn(ctx context.Context, username, password string) (*models.User, string, error) {
	password = strings.TrimSpace(password)
	if username == "" {
		return nil, "", invalid("username", "username not provided")
	}
	if password == "" {
		return nil, "", invalid("password", "password not provided")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(Identity{ID: u.ID, Username: u.Username}, SignInTokenTTL)
	if err != nil {
		return nil, "", err
	}

	s.record(ctx, u.ID, models.EventSignIn, "signed in")
	return u, token, nil
}

// Me resolves the authenticated identity to its current record.
func (s *AccountService) Me(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// ChangePassword replaces the hash after verifying currentPassword.
// newPassword is hashed as given; its length is not re-validated here.
func (s *AccountService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	u, err := s.Me(ctx, id)
	if err != nil {
		return err
	}
	if currentPassword == "" {
		return invalid("currentPassword", "current password not provided")
	}
	if newPassword == "" {
		return invalid("newPassword", "new password not provided")
	}
	if err := s.hasher.Compare(u.PasswordHash, currentPassword); err != nil {
		return wrapMsg(ErrInvalidCredentials, "passwords do not match")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	updated, err := s.users.UpdatePasswordHash(ctx, u.ID, hash)
	if err != nil {
		return err
	}
	if !updated {
		return ErrUserNotFound
	}

	s.record(ctx, u.ID, models.EventPasswordChange, "password changed")
	return nil
}

func (s *AccountService) record(ctx context.Context, userID, typ, desc string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, models.AccountEvent{UserID: userID, Type: typ, Description: desc})
}

func lengthBetween(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

var _ Account = (*AccountService)(nil)
