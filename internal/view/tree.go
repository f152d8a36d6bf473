package view

import (
	"time"

	"go-firestore-hampter/internal/model"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type CommentView struct {
	Id              string    `json:"id"`
	Username        string    `json:"username"`
	ProfileImageUrl string    `json:"profileImageUrl"`
	Text            string    `json:"text,omitempty"`
	ImageUrl        string    `json:"imageUrl,omitempty"`
	ParentId        string    `json:"parentId,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	Likes           int       `json:"likes"`
	Liked           bool      `json:"liked"`
}

// Thread is a top level comment with its direct replies in chronological order.
type Thread struct {
	CommentView
	Replies []CommentView `json:"replies"`
}

// BuildThreads turns the flat, oldest first comment list into top level threads.
// Replies keep their input order. A reply to a reply is attached to the top
// level comment at the root of its chain; replies without a reachable root are dropped.
func BuildThreads(comments []model.Comment, viewer string) []Thread {
	byId := make(map[string]model.Comment, len(comments))
	for _, c := range comments {
		byId[c.Id] = c
	}

	threads := orderedmap.New[string, *Thread]()
	for _, c := range comments {
		if c.IsReply() {
			continue
		}
		threads.Set(c.Id, &Thread{CommentView: NewCommentView(c, viewer), Replies: []CommentView{}})
	}

	for _, c := range comments {
		if !c.IsReply() {
			continue
		}
		thread, ok := threads.Get(rootOf(c, byId))
		if !ok {
			continue
		}
		thread.Replies = append(thread.Replies, NewCommentView(c, viewer))
	}

	out := make([]Thread, 0, threads.Len())
	for pair := threads.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, *pair.Value)
	}
	return out
}

// RootId returns the id of the top level comment a new reply to id must hang
// under, so that replies never nest deeper than one level.
func RootId(id string, comments []model.Comment) string {
	byId := make(map[string]model.Comment, len(comments))
	for _, c := range comments {
		byId[c.Id] = c
	}
	c, ok := byId[id]
	if !ok || !c.IsReply() {
		return id
	}
	if root := rootOf(c, byId); root != "" {
		return root
	}
	return id
}

func rootOf(c model.Comment, byId map[string]model.Comment) string {
	seen := map[string]struct{}{c.Id: {}}
	root := *c.ParentId
	for {
		parent, ok := byId[root]
		if !ok || !parent.IsReply() {
			return root
		}
		if _, loop := seen[parent.Id]; loop {
			return ""
		}
		seen[parent.Id] = struct{}{}
		root = *parent.ParentId
	}
}

// NewCommentView renders a single comment for viewer.
func NewCommentView(c model.Comment, viewer string) CommentView {
	v := CommentView{
		Id:              c.Id,
		Username:        c.Username,
		ProfileImageUrl: c.UserPfp,
		Timestamp:       c.Timestamp,
		Likes:           c.Likes,
		Liked:           c.LikedByUser(viewer),
	}
	if c.Text != nil {
		v.Text = *c.Text
	}
	if c.ImageUrl != nil {
		v.ImageUrl = *c.ImageUrl
	}
	if c.ParentId != nil {
		v.ParentId = *c.ParentId
	}
	return v
}
