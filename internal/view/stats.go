package view

import "go-firestore-hampter/internal/model"

type Stats struct {
	Likes      int  `json:"likes"`
	Liked      bool `json:"liked"`
	Comments   int  `json:"comments"`
	Bookmarks  int  `json:"bookmarks"`
	Bookmarked bool `json:"bookmarked"`
}

func BuildStats(stats model.VideoStats, viewer string) Stats {
	return Stats{
		Likes:      stats.Likes.Count,
		Liked:      stats.LikedByUser(viewer),
		Comments:   stats.Comments.Count,
		Bookmarks:  stats.Bookmarks.Count,
		Bookmarked: stats.BookmarkedByUser(viewer),
	}
}
