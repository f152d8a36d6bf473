package view

import (
	"slices"

	"go-firestore-hampter/internal/model"
)

// Reaction is a counter together with the members that produced it, such as a
// like count and the usernames that liked.
type Reaction struct {
	Count   int
	Members []string
}

func (r Reaction) Has(member string) bool {
	return slices.Contains(r.Members, member)
}

// Toggle applies locally what the remote toggle does: with present the counter
// drops by one and every occurrence of member is removed, otherwise the counter
// grows by one and member is added unless already there.
func (r Reaction) Toggle(member string, present bool) Reaction {
	members := make([]string, 0, len(r.Members)+1)
	if present {
		for _, m := range r.Members {
			if m != member {
				members = append(members, m)
			}
		}
		return Reaction{Count: r.Count - 1, Members: members}
	}

	members = append(members, r.Members...)
	if !slices.Contains(members, member) {
		members = append(members, member)
	}
	return Reaction{Count: r.Count + 1, Members: members}
}

// ToggleCommentLike returns a copy of comments where the comment with id has
// its like toggled by username.
func ToggleCommentLike(comments []model.Comment, id, username string, currentlyLiked bool) []model.Comment {
	out := slices.Clone(comments)
	for i, c := range out {
		if c.Id != id {
			continue
		}
		r := Reaction{Count: c.Likes, Members: c.LikedBy}.Toggle(username, currentlyLiked)
		out[i].Likes, out[i].LikedBy = r.Count, r.Members
	}
	return out
}

func ToggleVideoLike(stats model.VideoStats, username string, currentlyLiked bool) model.VideoStats {
	r := Reaction{Count: stats.Likes.Count, Members: stats.Likes.LikedBy}.Toggle(username, currentlyLiked)
	stats.Likes = model.LikeStats{Count: r.Count, LikedBy: r.Members}
	return stats
}

func ToggleVideoBookmark(stats model.VideoStats, username string, currentlyBookmarked bool) model.VideoStats {
	r := Reaction{Count: stats.Bookmarks.Count, Members: stats.Bookmarks.BookmarkedBy}.Toggle(username, currentlyBookmarked)
	stats.Bookmarks = model.BookmarkStats{Count: r.Count, BookmarkedBy: r.Members}
	return stats
}
