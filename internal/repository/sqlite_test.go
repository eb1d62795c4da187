package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"likes_service/internal/models"
	"likes_service/internal/repository/db"
)

func newSQLiteRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewRepository(conn)
}

func mustCreate(t *testing.T, r *Repository, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: "hash-" + name}
	if err := r.Users.Create(ctx(t), u); err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return u
}

func TestSQLite_CreateAndLookup(t *testing.T) {
	r := newSQLiteRepo(t)
	alice := mustCreate(t, r, "alice")

	byID, err := r.Users.GetByID(ctx(t), alice.ID)
	if err != nil || byID == nil {
		t.Fatalf("GetByID: %+v %v", byID, err)
	}
	if byID.Username != "alice" || byID.PasswordHash != "hash-alice" || byID.Likes != 0 {
		t.Fatalf("unexpected user: %+v", byID)
	}
	if byID.CreatedAt.Sub(alice.CreatedAt).Abs() > time.Millisecond {
		t.Fatalf("created_at round trip: stored %v, read %v", alice.CreatedAt, byID.CreatedAt)
	}

	byName, err := r.Users.GetByUsername(ctx(t), "alice")
	if err != nil || byName == nil || byName.ID != alice.ID {
		t.Fatalf("GetByUsername: %+v %v", byName, err)
	}

	missing, err := r.Users.GetByUsername(ctx(t), "nobody")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown username, got (%+v, %v)", missing, err)
	}
}

func TestSQLite_DuplicateUsername(t *testing.T) {
	r := newSQLiteRepo(t)
	mustCreate(t, r, "alice")

	err := r.Users.Create(ctx(t), &models.User{Username: "alice", PasswordHash: "other"})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestSQLite_LikeCounterMatchesLikers(t *testing.T) {
	r := newSQLiteRepo(t)
	alice := mustCreate(t, r, "alice")
	bob := mustCreate(t, r, "bob")
	carol := mustCreate(t, r, "carol")

	for _, liker := range []string{alice.ID, carol.ID} {
		ok, err := r.Users.AddLike(ctx(t), bob.ID, liker)
		if err != nil || !ok {
			t.Fatalf("AddLike by %s: ok=%v err=%v", liker, ok, err)
		}
	}
	ok, err := r.Users.AddLike(ctx(t), bob.ID, alice.ID)
	if err != nil || ok {
		t.Fatalf("second like must be a no-op: ok=%v err=%v", ok, err)
	}

	got, _ := r.Users.GetByID(ctx(t), bob.ID)
	if got.Likes != 2 || len(got.LikedBy) != 2 {
		t.Fatalf("after likes: likes=%d likedBy=%v", got.Likes, got.LikedBy)
	}

	ok, err = r.Users.RemoveLike(ctx(t), bob.ID, alice.ID)
	if err != nil || !ok {
		t.Fatalf("RemoveLike: ok=%v err=%v", ok, err)
	}
	ok, err = r.Users.RemoveLike(ctx(t), bob.ID, alice.ID)
	if err != nil || ok {
		t.Fatalf("second unlike must be a no-op: ok=%v err=%v", ok, err)
	}

	got, _ = r.Users.GetByID(ctx(t), bob.ID)
	if got.Likes != 1 || len(got.LikedBy) != 1 || got.LikedBy[0] != carol.ID {
		t.Fatalf("after unlike: likes=%d likedBy=%v", got.Likes, got.LikedBy)
	}
}

func TestSQLite_SelfLikeRejectedByStore(t *testing.T) {
	r := newSQLiteRepo(t)
	alice := mustCreate(t, r, "alice")

	if _, err := r.Users.AddLike(ctx(t), alice.ID, alice.ID); err == nil {
		t.Fatalf("expected constraint error for self like")
	}
	got, _ := r.Users.GetByID(ctx(t), alice.ID)
	if got.Likes != 0 || len(got.LikedBy) != 0 {
		t.Fatalf("self like must not change the record: %+v", got)
	}
}

func TestSQLite_ListByLikesDescending(t *testing.T) {
	r := newSQLiteRepo(t)
	a := mustCreate(t, r, "alice")
	b := mustCreate(t, r, "bob")
	c := mustCreate(t, r, "carol")

	likes := [][2]string{{b.ID, a.ID}, {b.ID, c.ID}, {c.ID, a.ID}}
	for _, l := range likes {
		if _, err := r.Users.AddLike(ctx(t), l[0], l[1]); err != nil {
			t.Fatalf("AddLike: %v", err)
		}
	}

	users, err := r.Users.ListByLikes(ctx(t))
	if err != nil {
		t.Fatalf("ListByLikes: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("want 3 users, got %d", len(users))
	}
	for i := 0; i+1 < len(users); i++ {
		if users[i].Likes < users[i+1].Likes {
			t.Fatalf("not descending at %d: %d < %d", i, users[i].Likes, users[i+1].Likes)
		}
	}
	for _, u := range users {
		if u.Likes != len(u.LikedBy) {
			t.Fatalf("%s: likes=%d but likedBy=%v", u.Username, u.Likes, u.LikedBy)
		}
	}
}

func TestSQLite_EventsRoundTrip(t *testing.T) {
	r := newSQLiteRepo(t)
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.AccountEvent{
		{UserID: "u1", OccurredAt: base, Type: models.EventSignUp, Description: "signed up"},
		{UserID: "u1", OccurredAt: base.Add(time.Minute), Type: models.EventLike, Description: "liked", Metadata: map[string]string{"target": "u2"}},
		{UserID: "u2", OccurredAt: base.Add(2 * time.Minute), Type: models.EventSignIn, Description: "other user"},
		{UserID: "u1", OccurredAt: base.Add(time.Hour), Type: models.EventLike, Description: "late"},
	}
	for _, e := range events {
		if err := r.Events.Append(ctx(t), e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := r.Events.List(ctx(t), "u1", time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 events for u1, got %d", len(all))
	}

	ranged, err := r.Events.List(ctx(t), "u1", base, base.Add(30*time.Minute), "like")
	if err != nil {
		t.Fatalf("List ranged: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Description != "liked" || !ranged[0].OccurredAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected ranged result: %+v", ranged)
	}
	meta, ok := ranged[0].Metadata.(map[string]any)
	if !ok || meta["target"] != "u2" {
		t.Fatalf("metadata not decoded: %#v", ranged[0].Metadata)
	}
}
