package service

import (
	"context"

	"likes_service/internal/models"
	"likes_service/internal/repository"

	"github.com/google/uuid"
)

type RelationshipService struct {
	users    repository.UserRepo
	activity ActivityLog
}

func NewRelationshipService(users repository.UserRepo, activity ActivityLog) *RelationshipService {
	return &RelationshipService{users: users, activity: activity}
}

var _ Relationship = (*RelationshipService)(nil)

// FetchUser returns the user with id. Malformed ids fail validation before
// the store is consulted.
func (s *RelationshipService) FetchUser(ctx context.Context, id string) (*models.User, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, invalid("id", "invalid user id")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Like adds actorID to targetID's likers and returns the target as it was
// before the change.
func (s *RelationshipService) Like(ctx context.Context, actorID, targetID string) (*models.User, error) {
	target, err := s.resolvePair(ctx, actorID, targetID, "you can not like yourself")
	if err != nil {
		return nil, err
	}
	if target.HasLiker(actorID) {
		return nil, ErrAlreadyLiked
	}

	added, err := s.users.AddLike(ctx, target.ID, actorID)
	if err != nil {
		return nil, err
	}
	// A concurrent like from the same actor got there first.
	if !added {
		return nil, ErrAlreadyLiked
	}

	s.record(ctx, actorID, models.EventLike, "liked "+target.Username, target)
	return target, nil
}

// Unlike removes actorID from targetID's likers.
func (s *RelationshipService) Unlike(ctx context.Context, actorID, targetID string) (*models.User, error) {
	target, err := s.resolvePair(ctx, actorID, targetID, "you can not unlike yourself")
	if err != nil {
		return nil, err
	}
	if !target.HasLiker(actorID) {
		return nil, ErrNotLiked
	}

	removed, err := s.users.RemoveLike(ctx, target.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotLiked
	}

	s.record(ctx, actorID, models.EventUnlike, "unliked "+target.Username, target)
	return target, nil
}

// MostLiked lists every user, most liked first.
func (s *RelationshipService) MostLiked(ctx context.Context) ([]models.User, error) {
	return s.users.ListByLikes(ctx)
}

// resolvePair runs the checks shared by Like and Unlike, in order: actor
// exists, target id well formed, target exists, target is not the actor.
func (s *RelationshipService) resolvePair(ctx context.Context, actorID, targetID, selfMsg string) (*models.User, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, wrapMsg(ErrUserNotFound, "current user not found")
	}

	target, err := s.FetchUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.ID == actor.ID {
		return nil, wrapMsg(ErrSelfReference, selfMsg)
	}
	return target, nil
}

func (s *RelationshipService) record(ctx context.Context, actorID, typ, desc string, target *models.User) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, models.AccountEvent{
		UserID:      actorID,
		Type:        typ,
		Description: desc,
		Metadata:    map[string]string{"targetId": target.ID, "targetUsername": target.Username},
	})
}

// canonicalID accepts any uuid form and returns the hyphenated lowercase one
// the store uses.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
