package session

// Command is anything a viewer can send to its session: a viewstate.Action or
// one of the reactions below.
type Command interface{}

type LikeComment struct{ CommentId string }
type LikeVideo struct{}
type BookmarkVideo struct{}
