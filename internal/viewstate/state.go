package viewstate

import (
	"sort"
	"strings"
)

// nearBottomThreshold is the distance from the bottom of the comment list, in
// display units, under which the list follows new comments.
const nearBottomThreshold = 50

type State struct {
	ReplyTarget      string
	Expanded         map[string]struct{}
	IsNearBottom     bool
	ShowJumpToBottom bool
	Posting          bool
	Input            string
	Alert            string
}

func New() State {
	return State{
		Expanded:     map[string]struct{}{},
		IsNearBottom: true,
	}
}

func (s State) IsExpanded(commentId string) bool {
	_, ok := s.Expanded[commentId]
	return ok
}

// ExpandedIds returns the expanded comment ids in a stable order.
func (s State) ExpandedIds() []string {
	ids := make([]string, 0, len(s.Expanded))
	for id := range s.Expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type Action interface {
	isAction()
}

type InputChanged struct{ Text string }
type ReplyTo struct{ CommentId string }
type CancelReply struct{}
type ToggleReplies struct{ CommentId string }
type Submit struct{}
type PickSticker struct{ ImageUrl string }
type PostFinished struct{ Err error }
type Scrolled struct{ ScrollTop, ScrollHeight, ClientHeight float64 }
type TreeUpdated struct{}
type JumpToBottom struct{}
type DismissAlert struct{}

func (InputChanged) isAction()  {}
func (ReplyTo) isAction()       {}
func (CancelReply) isAction()   {}
func (ToggleReplies) isAction() {}
func (Submit) isAction()        {}
func (PickSticker) isAction()   {}
func (PostFinished) isAction()  {}
func (Scrolled) isAction()      {}
func (TreeUpdated) isAction()   {}
func (JumpToBottom) isAction()  {}
func (DismissAlert) isAction()  {}

type Effect interface {
	isEffect()
}

type ScrollToBottom struct{}

// PostComment asks for a new comment. Exactly one of Text and ImageUrl is set;
// ParentId is empty for a top level comment.
type PostComment struct {
	Text     string
	ImageUrl string
	ParentId string
}

func (ScrollToBottom) isEffect() {}
func (PostComment) isEffect()    {}

// PostFailedAlert is shown when a comment could not be posted.
const PostFailedAlert = "Failed to post comment. Please try again."

// Reduce applies action to s and returns the next state with the side effects
// the caller has to run. s is never modified.
func Reduce(s State, action Action) (State, []Effect) {
	switch a := action.(type) {
	case InputChanged:
		s.Input = a.Text
	case ReplyTo:
		s.ReplyTarget = a.CommentId
	case CancelReply:
		s.ReplyTarget = ""
	case ToggleReplies:
		s.Expanded = toggle(s.Expanded, a.CommentId)
	case Submit:
		text := strings.TrimSpace(s.Input)
		if text == "" || s.Posting {
			return s, nil
		}
		s.Posting = true
		return s, []Effect{PostComment{Text: text, ParentId: s.ReplyTarget}}
	case PickSticker:
		if strings.TrimSpace(a.ImageUrl) == "" || s.Posting {
			return s, nil
		}
		s.Posting = true
		return s, []Effect{PostComment{ImageUrl: a.ImageUrl, ParentId: s.ReplyTarget}}
	case PostFinished:
		// the reply target is dropped on failure too, a retry starts a top level comment
		s.Posting = false
		s.ReplyTarget = ""
		s.Input = ""
		if a.Err != nil {
			s.Alert = PostFailedAlert
		}
	case Scrolled:
		s.IsNearBottom = a.ScrollHeight-a.ScrollTop-a.ClientHeight < nearBottomThreshold
		s.ShowJumpToBottom = !s.IsNearBottom
	case TreeUpdated:
		if s.IsNearBottom {
			s.ShowJumpToBottom = false
			return s, []Effect{ScrollToBottom{}}
		}
		s.ShowJumpToBottom = true
	case JumpToBottom:
		s.IsNearBottom = true
		s.ShowJumpToBottom = false
		return s, []Effect{ScrollToBottom{}}
	case DismissAlert:
		s.Alert = ""
	}
	return s, nil
}

func toggle(set map[string]struct{}, id string) map[string]struct{} {
	out := make(map[string]struct{}, len(set)+1)
	for k := range set {
		out[k] = struct{}{}
	}
	if _, ok := out[id]; ok {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}
