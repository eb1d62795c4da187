package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"likes_service/internal/models"

	"github.com/google/uuid"
)

type relationshipFixture struct {
	users  *memUserRepo
	events *fakeEventRepo
	svc    *RelationshipService
}

func newRelationshipFixture() *relationshipFixture {
	users := newMemUserRepo()
	events := &fakeEventRepo{}
	return &relationshipFixture{
		users:  users,
		events: events,
		svc:    NewRelationshipService(users, NewActivityService(events, nil)),
	}
}

func TestRelationshipService_FetchUser(t *testing.T) {
	f := newRelationshipFixture()
	bob := f.users.add("bob", "hashed:pw")

	tests := []struct {
		name string
		id   string
		want error
	}{
		{name: "known id", id: bob.ID},
		{name: "uppercase form of known id", id: strings.ToUpper(bob.ID)},
		{name: "malformed id", id: "not-a-uuid", want: ErrValidation},
		{name: "empty id", id: "", want: ErrValidation},
		{name: "well formed unknown id", id: uuid.NewString(), want: ErrUserNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := f.svc.FetchUser(context.Background(), tc.id)
			if tc.want != nil {
				if !errors.Is(err, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
				return
			}
			if err != nil || u.ID != bob.ID {
				t.Fatalf("FetchUser = %+v, %v", u, err)
			}
		})
	}
}

func TestRelationshipService_FetchUser_MalformedParam(t *testing.T) {
	f := newRelationshipFixture()
	_, err := f.svc.FetchUser(context.Background(), "123")

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Param != "id" {
		t.Fatalf("expected ValidationError on id, got %v", err)
	}
}

func TestRelationshipService_Like(t *testing.T) {
	f := newRelationshipFixture()
	alice := f.users.add("alice", "h")
	bob := f.users.add("bob", "h")

	target, err := f.svc.Like(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("first like: %v", err)
	}
	if target == nil || target.ID != bob.ID || target.Username != "bob" {
		t.Fatalf("Like returned target %+v", target)
	}
	stored := f.users.users[bob.ID]
	if stored.Likes != 1 || !stored.HasLiker(alice.ID) {
		t.Fatalf("after like: %+v", stored)
	}

	if _, err := f.svc.Like(context.Background(), alice.ID, bob.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("second like: expected ErrAlreadyLiked, got %v", err)
	}
	if stored.Likes != 1 || len(stored.LikedBy) != 1 {
		t.Fatalf("duplicate like must not change the record: %+v", stored)
	}

	if got := f.events.types(); len(got) != 1 || got[0] != models.EventLike {
		t.Fatalf("recorded events = %v", got)
	}
	meta, _ := f.events.appended[0].Metadata.(map[string]string)
	if f.events.appended[0].UserID != alice.ID || meta["targetId"] != bob.ID {
		t.Fatalf("like event must be recorded on the actor: %+v", f.events.appended[0])
	}
}

func TestRelationshipService_Like_Failures(t *testing.T) {
	tests := []struct {
		name   string
		actor  func(a, b *models.User) string
		target func(a, b *models.User) string
		want   error
	}{
		{
			name:   "actor unresolved",
			actor:  func(_, _ *models.User) string { return uuid.NewString() },
			target: func(_, b *models.User) string { return b.ID },
			want:   ErrUserNotFound,
		},
		{
			name:   "malformed target",
			actor:  func(a, _ *models.User) string { return a.ID },
			target: func(_, _ *models.User) string { return "xyz" },
			want:   ErrValidation,
		},
		{
			name:   "unknown target",
			actor:  func(a, _ *models.User) string { return a.ID },
			target: func(_, _ *models.User) string { return uuid.NewString() },
			want:   ErrUserNotFound,
		},
		{
			name:   "self like",
			actor:  func(a, _ *models.User) string { return a.ID },
			target: func(a, _ *models.User) string { return a.ID },
			want:   ErrSelfReference,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRelationshipFixture()
			a := f.users.add("alice", "h")
			b := f.users.add("bob", "h")

			target, err := f.svc.Like(context.Background(), tc.actor(a, b), tc.target(a, b))
			if !errors.Is(err, tc.want) || target != nil {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if f.users.likeCalls != 0 {
				t.Fatalf("store must not be mutated, likeCalls=%d", f.users.likeCalls)
			}
			if len(f.events.appended) != 0 {
				t.Fatalf("failed like must not be recorded")
			}
		})
	}
}

func TestRelationshipService_Like_StoreError(t *testing.T) {
	f := newRelationshipFixture()
	a := f.users.add("alice", "h")
	b := f.users.add("bob", "h")
	f.users.likeErr = errors.New("locked")

	if _, err := f.svc.Like(context.Background(), a.ID, b.ID); !errors.Is(err, f.users.likeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestRelationshipService_Unlike(t *testing.T) {
	f := newRelationshipFixture()
	alice := f.users.add("alice", "h")
	bob := f.users.add("bob", "h")

	if _, err := f.svc.Unlike(context.Background(), alice.ID, bob.ID); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("unlike without like: expected ErrNotLiked, got %v", err)
	}
	if _, err := f.svc.Unlike(context.Background(), alice.ID, alice.ID); !errors.Is(err, ErrSelfReference) {
		t.Fatalf("self unlike: expected ErrSelfReference, got %v", err)
	}

	if _, err := f.svc.Like(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	target, err := f.svc.Unlike(context.Background(), alice.ID, bob.ID)
	if err != nil || target.Username != "bob" {
		t.Fatalf("unlike: target=%+v err=%v", target, err)
	}
	stored := f.users.users[bob.ID]
	if stored.Likes != 0 || stored.HasLiker(alice.ID) {
		t.Fatalf("after unlike: %+v", stored)
	}

	got := f.events.types()
	if len(got) != 2 || got[0] != models.EventLike || got[1] != models.EventUnlike {
		t.Fatalf("recorded events = %v", got)
	}
}

func TestRelationshipService_MostLiked(t *testing.T) {
	f := newRelationshipFixture()
	a := f.users.add("alice", "h")
	b := f.users.add("bob", "h")
	c := f.users.add("carol", "h")

	for _, pair := range [][2]string{{a.ID, b.ID}, {c.ID, b.ID}, {a.ID, c.ID}} {
		if _, err := f.svc.Like(context.Background(), pair[0], pair[1]); err != nil {
			t.Fatalf("like: %v", err)
		}
	}

	users, err := f.svc.MostLiked(context.Background())
	if err != nil {
		t.Fatalf("MostLiked: %v", err)
	}
	if len(users) != 3 || users[0].ID != b.ID {
		t.Fatalf("unexpected order: %+v", users)
	}
	for i := 0; i+1 < len(users); i++ {
		if users[i].Likes < users[i+1].Likes {
			t.Fatalf("not descending at %d", i)
		}
	}
}
