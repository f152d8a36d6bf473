package server

import (
	"encoding/json"
	"fmt"

	"go-firestore-hampter/internal/handler/session"
	"go-firestore-hampter/internal/viewstate"
)

// wireCommand is the JSON form of a session command sent over the websocket.
type wireCommand struct {
	Type         string  `json:"type"`
	Text         string  `json:"text,omitempty"`
	CommentId    string  `json:"commentId,omitempty"`
	ImageUrl     string  `json:"imageUrl,omitempty"`
	ScrollTop    float64 `json:"scrollTop,omitempty"`
	ScrollHeight float64 `json:"scrollHeight,omitempty"`
	ClientHeight float64 `json:"clientHeight,omitempty"`
}

func decodeCommand(data []byte) (session.Command, error) {
	var c wireCommand
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}

	switch c.Type {
	case "input":
		return viewstate.InputChanged{Text: c.Text}, nil
	case "replyTo":
		return viewstate.ReplyTo{CommentId: c.CommentId}, nil
	case "cancelReply":
		return viewstate.CancelReply{}, nil
	case "toggleReplies":
		return viewstate.ToggleReplies{CommentId: c.CommentId}, nil
	case "submit":
		return viewstate.Submit{}, nil
	case "sticker":
		return viewstate.PickSticker{ImageUrl: c.ImageUrl}, nil
	case "scroll":
		return viewstate.Scrolled{ScrollTop: c.ScrollTop, ScrollHeight: c.ScrollHeight, ClientHeight: c.ClientHeight}, nil
	case "jumpToBottom":
		return viewstate.JumpToBottom{}, nil
	case "dismissAlert":
		return viewstate.DismissAlert{}, nil
	case "likeComment":
		return session.LikeComment{CommentId: c.CommentId}, nil
	case "likeVideo":
		return session.LikeVideo{}, nil
	case "bookmarkVideo":
		return session.BookmarkVideo{}, nil
	}
	return nil, fmt.Errorf("decode command: unknown type %q", c.Type)
}
