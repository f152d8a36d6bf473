package videostats

import "time"

const (
	// collection name
	videoStatsNode string = "videoStats"

	// Fields' name and path
	LikesCountFieldPath     string = "likes.count"
	LikedByFieldPath        string = "likes.likedBy"
	CommentsCountFieldPath  string = "comments.count"
	BookmarksCountFieldPath string = "bookmarks.count"
	BookmarkedByFieldPath   string = "bookmarks.bookmarkedBy"

	// It must not exceed the write timeout of the database.firestore.notifyOnChanges
	channelWriteTimeout time.Duration = time.Second * 3
)
