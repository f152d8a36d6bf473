package model

import "slices"

// VideoStatsId is the key of the singleton stats document.
const VideoStatsId = "main"

type VideoStats struct {
	Likes     LikeStats     `firestore:"likes" json:"likes"`
	Comments  CommentStats  `firestore:"comments" json:"comments"`
	Bookmarks BookmarkStats `firestore:"bookmarks" json:"bookmarks"`
}

type LikeStats struct {
	Count   int      `firestore:"count" json:"count"`
	LikedBy []string `firestore:"likedBy" json:"likedBy"`
}

type CommentStats struct {
	Count int `firestore:"count" json:"count"`
}

type BookmarkStats struct {
	Count        int      `firestore:"count" json:"count"`
	BookmarkedBy []string `firestore:"bookmarkedBy" json:"bookmarkedBy"`
}

func EmptyVideoStats() VideoStats {
	return VideoStats{
		Likes:     LikeStats{LikedBy: []string{}},
		Bookmarks: BookmarkStats{BookmarkedBy: []string{}},
	}
}

func (s VideoStats) LikedByUser(username string) bool {
	return username != "" && slices.Contains(s.Likes.LikedBy, username)
}

func (s VideoStats) BookmarkedByUser(username string) bool {
	return username != "" && slices.Contains(s.Bookmarks.BookmarkedBy, username)
}
