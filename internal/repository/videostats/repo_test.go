package videostats

import (
	"context"
	"reflect"
	"testing"

	"go-firestore-hampter/internal/database/dbtest"
	"go-firestore-hampter/internal/model"
)

func read(t *testing.T, repo VideoStatsRepository) model.VideoStats {
	t.Helper()
	stats, err := repo.GetOrInit(context.Background())
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	return *stats
}

func TestGetOrInit(t *testing.T) {
	repo := New(dbtest.Client(t))

	if got := read(t, repo); !reflect.DeepEqual(got, model.EmptyVideoStats()) {
		t.Errorf("initial stats = %+v", got)
	}

	snap, err := repo.db.GetDoc(context.Background(), DocRef(repo.db))
	if err != nil {
		t.Fatalf("stats document was not written: %v", err)
	}
	if snap.Ref.ID != model.VideoStatsId {
		t.Errorf("doc id = %s", snap.Ref.ID)
	}
}

func TestReactions(t *testing.T) {
	repo := New(dbtest.Client(t))
	ctx := context.Background()
	read(t, repo)

	if err := repo.ToggleLike(ctx, "bob", false); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := repo.ToggleBookmark(ctx, "bob", false); err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	stats := read(t, repo)
	if stats.Likes.Count != 1 || !stats.LikedByUser("bob") {
		t.Errorf("likes = %+v", stats.Likes)
	}
	if stats.Bookmarks.Count != 1 || !stats.BookmarkedByUser("bob") {
		t.Errorf("bookmarks = %+v", stats.Bookmarks)
	}

	if err := repo.ToggleLike(ctx, "bob", true); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	stats = read(t, repo)
	if stats.Likes.Count != 0 || stats.LikedByUser("bob") {
		t.Errorf("likes after unlike = %+v", stats.Likes)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := read(t, repo); got.Bookmarks.Count != 0 || len(got.Bookmarks.BookmarkedBy) != 0 {
		t.Errorf("stats after reset = %+v", got)
	}
}
