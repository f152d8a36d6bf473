package view

import (
	"testing"
	"time"

	"go-firestore-hampter/internal/model"
)

func str(s string) *string { return &s }

func comment(id, parent string, at int, likedBy ...string) model.Comment {
	c := model.Comment{
		Id:        id,
		Username:  "user_" + id,
		Text:      str("text " + id),
		Timestamp: time.Unix(int64(at), 0),
		Likes:     len(likedBy),
		LikedBy:   likedBy,
		Replies:   []string{},
	}
	if parent != "" {
		c.ParentId = str(parent)
	}
	return c
}

func ids(views []CommentView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Id)
	}
	return out
}

func threadIds(threads []Thread) []string {
	out := make([]string, 0, len(threads))
	for _, t := range threads {
		out = append(out, t.Id)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildThreads(t *testing.T) {
	tests := []struct {
		name     string
		comments []model.Comment
		threads  []string
		replies  map[string][]string
	}{
		{
			name:    "empty",
			threads: []string{},
		},
		{
			name: "top level comments keep input order",
			comments: []model.Comment{
				comment("a", "", 1),
				comment("b", "", 2),
				comment("c", "", 3),
			},
			threads: []string{"a", "b", "c"},
		},
		{
			name: "replies are grouped under their parent",
			comments: []model.Comment{
				comment("a", "", 1),
				comment("b", "", 2),
				comment("r1", "a", 3),
				comment("r2", "b", 4),
				comment("r3", "a", 5),
			},
			threads: []string{"a", "b"},
			replies: map[string][]string{"a": {"r1", "r3"}, "b": {"r2"}},
		},
		{
			name: "reply to a reply hangs under the root",
			comments: []model.Comment{
				comment("a", "", 1),
				comment("r1", "a", 2),
				comment("r2", "r1", 3),
			},
			threads: []string{"a"},
			replies: map[string][]string{"a": {"r1", "r2"}},
		},
		{
			name: "orphan reply is dropped",
			comments: []model.Comment{
				comment("a", "", 1),
				comment("r1", "missing", 2),
			},
			threads: []string{"a"},
			replies: map[string][]string{"a": {}},
		},
		{
			name: "reply cycle is dropped",
			comments: []model.Comment{
				comment("x", "y", 1),
				comment("y", "x", 2),
			},
			threads: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			threads := BuildThreads(tt.comments, "")
			if got := threadIds(threads); !equal(got, tt.threads) {
				t.Fatalf("threads = %v, want %v", got, tt.threads)
			}
			for _, th := range threads {
				want := tt.replies[th.Id]
				if want == nil {
					want = []string{}
				}
				if got := ids(th.Replies); !equal(got, want) {
					t.Errorf("replies of %s = %v, want %v", th.Id, got, want)
				}
			}
		})
	}
}

func TestBuildThreadsKeepsEveryComment(t *testing.T) {
	comments := []model.Comment{
		comment("a", "", 1),
		comment("r1", "a", 2),
		comment("b", "", 3),
		comment("r2", "b", 4),
		comment("r3", "r2", 5),
	}

	threads := BuildThreads(comments, "")
	total := 0
	for _, th := range threads {
		total += 1 + len(th.Replies)
		if th.ParentId != "" {
			t.Errorf("thread %s has parent %s", th.Id, th.ParentId)
		}
	}
	if total != len(comments) {
		t.Errorf("rendered %d comments, want %d", total, len(comments))
	}
}

func TestBuildThreadsLikedFlag(t *testing.T) {
	comments := []model.Comment{
		comment("a", "", 1, "alice", "bob"),
		comment("r1", "a", 2, "bob"),
	}

	tests := []struct {
		viewer     string
		rootLiked  bool
		replyLiked bool
	}{
		{viewer: "alice", rootLiked: true, replyLiked: false},
		{viewer: "bob", rootLiked: true, replyLiked: true},
		{viewer: "carol", rootLiked: false, replyLiked: false},
		{viewer: "", rootLiked: false, replyLiked: false},
	}

	for _, tt := range tests {
		t.Run(tt.viewer, func(t *testing.T) {
			threads := BuildThreads(comments, tt.viewer)
			if len(threads) != 1 || len(threads[0].Replies) != 1 {
				t.Fatalf("unexpected shape %+v", threads)
			}
			if threads[0].Liked != tt.rootLiked {
				t.Errorf("root liked = %v, want %v", threads[0].Liked, tt.rootLiked)
			}
			if threads[0].Replies[0].Liked != tt.replyLiked {
				t.Errorf("reply liked = %v, want %v", threads[0].Replies[0].Liked, tt.replyLiked)
			}
			if threads[0].Likes != 2 {
				t.Errorf("likes = %d, want 2", threads[0].Likes)
			}
		})
	}
}

func TestBuildThreadsImageComment(t *testing.T) {
	c := model.Comment{Id: "a", Username: "bob", UserPfp: "pfp.webp", ImageUrl: str("sticker.webp")}

	threads := BuildThreads([]model.Comment{c}, "bob")
	if len(threads) != 1 {
		t.Fatalf("got %d threads", len(threads))
	}
	got := threads[0]
	if got.Text != "" || got.ImageUrl != "sticker.webp" || got.ProfileImageUrl != "pfp.webp" {
		t.Errorf("unexpected view %+v", got.CommentView)
	}
}

func TestRootId(t *testing.T) {
	comments := []model.Comment{
		comment("a", "", 1),
		comment("r1", "a", 2),
		comment("r2", "r1", 3),
	}

	tests := map[string]string{
		"a":       "a",
		"r1":      "a",
		"r2":      "a",
		"unknown": "unknown",
	}
	for id, want := range tests {
		if got := RootId(id, comments); got != want {
			t.Errorf("RootId(%s) = %s, want %s", id, got, want)
		}
	}
}
