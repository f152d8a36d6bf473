package session

import (
	"go-firestore-hampter/internal/view"
	"go-firestore-hampter/internal/viewstate"
)

// Frame is everything a viewer needs to render the comment section at one point in time.
type Frame struct {
	Threads          []view.Thread `json:"threads"`
	Stats            view.Stats    `json:"stats"`
	ReplyTarget      string        `json:"replyTarget,omitempty"`
	Expanded         []string      `json:"expanded"`
	ShowJumpToBottom bool          `json:"showJumpToBottom"`
	Posting          bool          `json:"posting"`
	Input            string        `json:"input"`
	Alert            string        `json:"alert,omitempty"`
	AutoScroll       bool          `json:"autoScroll"`
}

func newFrame(threads []view.Thread, stats view.Stats, state viewstate.State, autoScroll bool) Frame {
	if threads == nil {
		threads = []view.Thread{}
	}
	return Frame{
		Threads:          threads,
		Stats:            stats,
		ReplyTarget:      state.ReplyTarget,
		Expanded:         state.ExpandedIds(),
		ShowJumpToBottom: state.ShowJumpToBottom,
		Posting:          state.Posting,
		Input:            state.Input,
		Alert:            state.Alert,
		AutoScroll:       autoScroll,
	}
}
