package comment

import "time"

const (
	// collection name
	commentNode string = "comments"

	// Fields' name and path
	UsernameFieldPath  string = "username"
	UserPfpFieldPath   string = "userPfp"
	TextFieldPath      string = "text"
	ImageUrlFieldPath  string = "imageUrl"
	ParentIdFieldPath  string = "parentId"
	TimestampFieldPath string = "timestamp"
	LikesFieldPath     string = "likes"
	LikedByFieldPath   string = "likedBy"
	RepliesFieldPath   string = "replies"

	// It must not exceed the write timeout of the database.firestore.notifyOnChanges
	channelWriteTimeout time.Duration = time.Second * 3
)
