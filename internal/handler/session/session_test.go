package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-firestore-hampter/internal/eventpublisher/event"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/viewstate"
)

type fakePublisher struct {
	subscribed chan event.EventWChannel
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{subscribed: make(chan event.EventWChannel, 1)}
}

func (p *fakePublisher) Subscribe(ch event.EventWChannel)   { p.subscribed <- ch }
func (p *fakePublisher) Unsubscribe(ch event.EventWChannel) {}

type toggleCall struct {
	id      string
	user    string
	present bool
}

type fakeCommentWriter struct {
	added   chan model.NewComment
	toggled chan toggleCall
	addErr  error
}

func (w *fakeCommentWriter) Add(ctx context.Context, data model.NewComment) (string, error) {
	w.added <- data
	return "new", w.addErr
}

func (w *fakeCommentWriter) ToggleLike(ctx context.Context, id, username string, currentlyLiked bool) error {
	w.toggled <- toggleCall{id: id, user: username, present: currentlyLiked}
	return nil
}

type fakeStatsWriter struct {
	likes     chan toggleCall
	bookmarks chan toggleCall
}

func (w *fakeStatsWriter) ToggleLike(ctx context.Context, username string, currentlyLiked bool) error {
	w.likes <- toggleCall{user: username, present: currentlyLiked}
	return nil
}

func (w *fakeStatsWriter) ToggleBookmark(ctx context.Context, username string, currentlyBookmarked bool) error {
	w.bookmarks <- toggleCall{user: username, present: currentlyBookmarked}
	return nil
}

type harness struct {
	session  *Session
	comments event.EventWChannel
	stats    event.EventWChannel
	cw       *fakeCommentWriter
	sw       *fakeStatsWriter
	runErr   chan error
	cancel   context.CancelFunc
}

func start(t *testing.T, addErr error) *harness {
	t.Helper()

	commentsPub, statsPub := newFakePublisher(), newFakePublisher()
	cw := &fakeCommentWriter{added: make(chan model.NewComment, 8), toggled: make(chan toggleCall, 8), addErr: addErr}
	sw := &fakeStatsWriter{likes: make(chan toggleCall, 8), bookmarks: make(chan toggleCall, 8)}

	s := New(model.User{Username: "bob", ProfileImageUrl: "/p.webp"}, commentsPub, statsPub, cw, sw)

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{session: s, cw: cw, sw: sw, runErr: make(chan error, 1), cancel: cancel}
	go func() { h.runErr <- s.Run(ctx) }()
	t.Cleanup(cancel)

	h.comments = <-commentsPub.subscribed
	h.stats = <-statsPub.subscribed
	return h
}

func str(s string) *string { return &s }

func seed() []model.Comment {
	return []model.Comment{
		{Id: "a", Username: "alice", Text: str("first"), LikedBy: []string{}},
		{Id: "r1", Username: "carol", Text: str("reply"), ParentId: str("a"), LikedBy: []string{}},
	}
}

func waitFrame(t *testing.T, s *Session, match func(Frame) bool) Frame {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-s.Frames():
			if !ok {
				t.Fatal("frames closed")
			}
			if match(f) {
				return f
			}
		case <-timeout:
			t.Fatal("no matching frame")
		}
	}
}

func send(t *testing.T, s *Session, cmd Command) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Send(ctx, cmd); err != nil {
		t.Fatalf("send %T: %v", cmd, err)
	}
}

func TestSessionRendersSnapshots(t *testing.T) {
	h := start(t, nil)

	h.comments <- event.Event{Type: event.CommentsSnapshot, Message: seed()}
	f := waitFrame(t, h.session, func(f Frame) bool { return len(f.Threads) == 1 })
	if len(f.Threads[0].Replies) != 1 || f.Threads[0].Replies[0].Id != "r1" {
		t.Errorf("unexpected threads %+v", f.Threads)
	}
	if !f.AutoScroll {
		t.Error("first tree update did not scroll to bottom")
	}

	stats := model.VideoStats{Likes: model.LikeStats{Count: 3, LikedBy: []string{"bob"}}, Comments: model.CommentStats{Count: 2}}
	h.stats <- event.Event{Type: event.VideoStatsSnapshot, Message: stats}
	f = waitFrame(t, h.session, func(f Frame) bool { return f.Stats.Likes == 3 })
	if !f.Stats.Liked || f.Stats.Comments != 2 {
		t.Errorf("unexpected stats %+v", f.Stats)
	}
}

func TestSessionScrolledUpShowsJumpToBottom(t *testing.T) {
	h := start(t, nil)

	send(t, h.session, viewstate.Scrolled{ScrollTop: 0, ScrollHeight: 1000, ClientHeight: 400})
	h.comments <- event.Event{Message: seed()}

	f := waitFrame(t, h.session, func(f Frame) bool { return len(f.Threads) == 1 })
	if f.AutoScroll || !f.ShowJumpToBottom {
		t.Errorf("frame = %+v", f)
	}

	send(t, h.session, viewstate.JumpToBottom{})
	f = waitFrame(t, h.session, func(f Frame) bool { return !f.ShowJumpToBottom })
	if !f.AutoScroll {
		t.Error("jump did not scroll")
	}
}

func TestSessionLikeComment(t *testing.T) {
	h := start(t, nil)
	h.comments <- event.Event{Message: seed()}
	waitFrame(t, h.session, func(f Frame) bool { return len(f.Threads) == 1 })

	send(t, h.session, LikeComment{CommentId: "r1"})
	f := waitFrame(t, h.session, func(f Frame) bool { return len(f.Threads) == 1 && f.Threads[0].Replies[0].Liked })
	if f.Threads[0].Replies[0].Likes != 1 {
		t.Errorf("likes = %d", f.Threads[0].Replies[0].Likes)
	}

	call := <-h.cw.toggled
	if call != (toggleCall{id: "r1", user: "bob", present: false}) {
		t.Errorf("call = %+v", call)
	}
}

func TestSessionVideoReactions(t *testing.T) {
	h := start(t, nil)
	h.stats <- event.Event{Message: model.VideoStats{Bookmarks: model.BookmarkStats{Count: 1, BookmarkedBy: []string{"bob"}}}}
	waitFrame(t, h.session, func(f Frame) bool { return f.Stats.Bookmarked })

	send(t, h.session, LikeVideo{})
	send(t, h.session, BookmarkVideo{})

	if call := <-h.sw.likes; call.present {
		t.Errorf("like call = %+v", call)
	}
	if call := <-h.sw.bookmarks; !call.present {
		t.Errorf("bookmark call = %+v", call)
	}
	f := waitFrame(t, h.session, func(f Frame) bool { return f.Stats.Liked && !f.Stats.Bookmarked })
	if f.Stats.Likes != 1 || f.Stats.Bookmarks != 0 {
		t.Errorf("stats = %+v", f.Stats)
	}
}

func TestSessionPostReplyToReply(t *testing.T) {
	h := start(t, nil)
	h.comments <- event.Event{Message: seed()}
	waitFrame(t, h.session, func(f Frame) bool { return len(f.Threads) == 1 })

	send(t, h.session, viewstate.ReplyTo{CommentId: "r1"})
	waitFrame(t, h.session, func(f Frame) bool { return f.ReplyTarget == "a" })

	send(t, h.session, viewstate.InputChanged{Text: " hello "})
	send(t, h.session, viewstate.Submit{})

	data := <-h.cw.added
	if data.Text == nil || *data.Text != "hello" || data.ParentId == nil || *data.ParentId != "a" {
		t.Errorf("posted %+v", data)
	}
	if data.Username != "bob" || data.ProfileImageUrl != "/p.webp" {
		t.Errorf("posted as %s %s", data.Username, data.ProfileImageUrl)
	}

	f := waitFrame(t, h.session, func(f Frame) bool { return !f.Posting && f.Input == "" })
	if f.ReplyTarget != "" || f.Alert != "" {
		t.Errorf("frame = %+v", f)
	}
}

func TestSessionPostFailureAlerts(t *testing.T) {
	h := start(t, errors.New("unavailable"))
	h.comments <- event.Event{Message: seed()}
	waitFrame(t, h.session, func(f Frame) bool { return len(f.Threads) == 1 })

	send(t, h.session, viewstate.ReplyTo{CommentId: "a"})
	send(t, h.session, viewstate.PickSticker{ImageUrl: "/stickers/hampter-01.webp"})

	data := <-h.cw.added
	if data.ImageUrl == nil || data.Text != nil {
		t.Errorf("posted %+v", data)
	}

	f := waitFrame(t, h.session, func(f Frame) bool { return f.Alert != "" })
	if f.Posting || f.ReplyTarget != "" {
		t.Errorf("frame = %+v", f)
	}
}

func TestSessionIgnoresReplyToUnknownComment(t *testing.T) {
	h := start(t, nil)
	h.comments <- event.Event{Message: seed()}
	waitFrame(t, h.session, func(f Frame) bool { return len(f.Threads) == 1 })

	send(t, h.session, viewstate.ReplyTo{CommentId: "ghost"})
	send(t, h.session, viewstate.InputChanged{Text: "hello"})
	send(t, h.session, viewstate.Submit{})

	data := <-h.cw.added
	if data.ParentId != nil {
		t.Errorf("posted under %q, want a top level comment", *data.ParentId)
	}
	f := waitFrame(t, h.session, func(f Frame) bool { return !f.Posting && f.Input == "" })
	if f.ReplyTarget != "" {
		t.Errorf("reply target = %q", f.ReplyTarget)
	}
}

func TestSessionEmptySubmitDoesNothing(t *testing.T) {
	h := start(t, nil)

	send(t, h.session, viewstate.InputChanged{Text: "   "})
	send(t, h.session, viewstate.Submit{})
	f := waitFrame(t, h.session, func(f Frame) bool { return f.Input == "   " })
	if f.Posting {
		t.Error("posting an empty comment")
	}

	select {
	case data := <-h.cw.added:
		t.Errorf("unexpected post %+v", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionEndsWhenStreamCloses(t *testing.T) {
	h := start(t, nil)
	close(h.comments)

	select {
	case err := <-h.runErr:
		if err == nil {
			t.Error("expected an error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}

	if err := h.session.Send(context.Background(), LikeVideo{}); !errors.Is(err, ErrClosed) {
		t.Errorf("send after close = %v", err)
	}
}

func TestSessionCancel(t *testing.T) {
	h := start(t, nil)
	h.cancel()

	select {
	case err := <-h.runErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
}
