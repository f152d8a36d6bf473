package view

import (
	"testing"

	"go-firestore-hampter/internal/model"
)

func TestBuildStats(t *testing.T) {
	stats := model.VideoStats{
		Likes:     model.LikeStats{Count: 2, LikedBy: []string{"alice", "bob"}},
		Comments:  model.CommentStats{Count: 7},
		Bookmarks: model.BookmarkStats{Count: 1, BookmarkedBy: []string{"bob"}},
	}

	tests := []struct {
		viewer string
		want   Stats
	}{
		{viewer: "alice", want: Stats{Likes: 2, Liked: true, Comments: 7, Bookmarks: 1}},
		{viewer: "bob", want: Stats{Likes: 2, Liked: true, Comments: 7, Bookmarks: 1, Bookmarked: true}},
		{viewer: "carol", want: Stats{Likes: 2, Comments: 7, Bookmarks: 1}},
		{viewer: "", want: Stats{Likes: 2, Comments: 7, Bookmarks: 1}},
	}

	for _, tt := range tests {
		if got := BuildStats(stats, tt.viewer); got != tt.want {
			t.Errorf("viewer %q: got %+v, want %+v", tt.viewer, got, tt.want)
		}
	}
}

func TestBuildStatsEmpty(t *testing.T) {
	if got := BuildStats(model.EmptyVideoStats(), "bob"); got != (Stats{}) {
		t.Errorf("got %+v, want zero", got)
	}
}
