package model

import (
	"slices"
	"strings"
	"time"
)

type Comment struct {
	Id        string    `firestore:"-" json:"id"` // it is the doc id, not a field
	Username  string    `firestore:"username" json:"username"`
	UserPfp   string    `firestore:"userPfp" json:"userPfp"`
	Text      *string   `firestore:"text,omitempty" json:"text,omitempty"`
	ImageUrl  *string   `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ParentId  *string   `firestore:"parentId,omitempty" json:"parentId,omitempty"`
	Timestamp time.Time `firestore:"timestamp,serverTimestamp" json:"timestamp"`
	Likes     int       `firestore:"likes" json:"likes"`
	LikedBy   []string  `firestore:"likedBy" json:"likedBy"`
	Replies   []string  `firestore:"replies" json:"replies"`
}

// IsReply reports whether the comment hangs under another comment.
func (c Comment) IsReply() bool {
	return c.ParentId != nil && *c.ParentId != ""
}

func (c Comment) LikedByUser(username string) bool {
	return username != "" && slices.Contains(c.LikedBy, username)
}

// NewComment is the input of a comment creation. Exactly one of Text and
// ImageUrl is expected to be set.
type NewComment struct {
	Username        string  `json:"username" validate:"required,username"`
	ProfileImageUrl string  `json:"profileImageUrl"`
	Text            *string `json:"text,omitempty" validate:"omitempty,max=500"`
	ImageUrl        *string `json:"imageUrl,omitempty"`
	ParentId        *string `json:"parentId,omitempty"`
}

// IsEmpty reports whether the comment has no content to post.
func (c NewComment) IsEmpty() bool {
	return blank(c.Text) && blank(c.ImageUrl)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
