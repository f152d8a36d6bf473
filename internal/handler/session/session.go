package session

import (
	"context"
	"errors"
	"fmt"

	"go-firestore-hampter/internal/eventpublisher"
	"go-firestore-hampter/internal/eventpublisher/event"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/utils"
	"go-firestore-hampter/internal/view"
	"go-firestore-hampter/internal/viewstate"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrClosed = errors.New("session closed")

type CommentWriter interface {
	Add(ctx context.Context, data model.NewComment) (string, error)
	ToggleLike(ctx context.Context, id, username string, currentlyLiked bool) error
}

type VideoStatsWriter interface {
	ToggleLike(ctx context.Context, username string, currentlyLiked bool) error
	ToggleBookmark(ctx context.Context, username string, currentlyBookmarked bool) error
}

// Session is the live comment section of one viewer. It follows the comment and
// stats publishers, applies the viewer's commands and emits a Frame after every change.
type Session struct {
	Id     string
	viewer model.User

	commentsPublisher eventpublisher.Publisher
	statsPublisher    eventpublisher.Publisher
	commentWriter     CommentWriter
	statsWriter       VideoStatsWriter

	commentsCh event.EventChannel
	statsCh    event.EventChannel
	commandCh  chan Command
	postDoneCh chan error
	framesCh   chan Frame
	done       chan struct{}

	// owned by the Run loop
	state    viewstate.State
	comments []model.Comment
	stats    model.VideoStats
}

func New(
	viewer model.User,
	commentsPublisher eventpublisher.Publisher,
	statsPublisher eventpublisher.Publisher,
	commentWriter CommentWriter,
	statsWriter VideoStatsWriter) *Session {

	return &Session{
		Id:                uuid.NewString(),
		viewer:            viewer,
		commentsPublisher: commentsPublisher,
		statsPublisher:    statsPublisher,
		commentWriter:     commentWriter,
		statsWriter:       statsWriter,
		// buffered so the publisher can replay its latest snapshot while subscribing
		commentsCh: make(event.EventChannel, 1),
		statsCh:    make(event.EventChannel, 1),
		commandCh:  make(chan Command),
		postDoneCh: make(chan error, 1),
		framesCh:   make(chan Frame, 1),
		done:       make(chan struct{}),
		state:      viewstate.New(),
		stats:      model.EmptyVideoStats(),
	}
}

// Frames returns the rendered states of the session. Only the most recent
// unread frame is kept, so a slow reader skips intermediate frames.
func (s *Session) Frames() <-chan Frame {
	return s.framesCh
}

// Send hands a command to the running session.
func (s *Session) Send(ctx context.Context, cmd Command) error {
	select {
	case s.commandCh <- cmd:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) subscribeToEvents() {
	s.commentsPublisher.Subscribe(s.commentsW())
	s.statsPublisher.Subscribe(s.statsW())
}

func (s *Session) unsubscribeFromEvents() {
	s.commentsPublisher.Unsubscribe(s.commentsW())
	s.statsPublisher.Unsubscribe(s.statsW())
}

func (s *Session) commentsW() chan<- event.Event {
	return s.commentsCh
}

func (s *Session) statsW() chan<- event.Event {
	return s.statsCh
}

// Run drives the session until ctx is done or one of the snapshot streams ends.
// The frames channel is closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer close(s.framesCh)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.subscribeToEvents()
		defer s.unsubscribeFromEvents()
		return s.loop(gctx, group)
	})

	err := group.Wait()
	log.Debug().Err(err).Msgf("session %s of %s ended", s.Id, s.viewer.Username)
	return err
}

func (s *Session) loop(ctx context.Context, group *errgroup.Group) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case e, ok := <-s.commentsCh:
			if !ok {
				return fmt.Errorf("session: comments stream closed, id: %s", s.Id)
			}
			if e.Err != nil {
				log.Error().Err(e.Err).Msg("session: error reading comment snapshots")
				return e.Err
			}
			comments, ok := e.Message.([]model.Comment)
			if !ok {
				continue
			}
			s.comments = comments
			s.apply(ctx, group, viewstate.TreeUpdated{})

		case e, ok := <-s.statsCh:
			if !ok {
				return fmt.Errorf("session: video stats stream closed, id: %s", s.Id)
			}
			if e.Err != nil {
				log.Error().Err(e.Err).Msg("session: error reading video stats snapshots")
				return e.Err
			}
			stats, ok := e.Message.(model.VideoStats)
			if !ok {
				continue
			}
			s.stats = stats
			s.emit(false)

		case err := <-s.postDoneCh:
			s.apply(ctx, group, viewstate.PostFinished{Err: err})

		case cmd := <-s.commandCh:
			s.handle(ctx, group, cmd)
		}
	}
}

func (s *Session) handle(ctx context.Context, group *errgroup.Group, cmd Command) {
	username := s.viewer.Username

	switch c := cmd.(type) {
	case LikeComment:
		comment, ok := s.comment(c.CommentId)
		if !ok {
			log.Warn().Msgf("session: like on unknown comment %s", c.CommentId)
			return
		}
		liked := comment.LikedByUser(username)
		s.comments = view.ToggleCommentLike(s.comments, c.CommentId, username, liked)
		s.background(ctx, group, "toggle comment like", func(ctx context.Context) error {
			return s.commentWriter.ToggleLike(ctx, c.CommentId, username, liked)
		})
		s.emit(false)

	case LikeVideo:
		liked := s.stats.LikedByUser(username)
		s.stats = view.ToggleVideoLike(s.stats, username, liked)
		s.background(ctx, group, "toggle video like", func(ctx context.Context) error {
			return s.statsWriter.ToggleLike(ctx, username, liked)
		})
		s.emit(false)

	case BookmarkVideo:
		bookmarked := s.stats.BookmarkedByUser(username)
		s.stats = view.ToggleVideoBookmark(s.stats, username, bookmarked)
		s.background(ctx, group, "toggle video bookmark", func(ctx context.Context) error {
			return s.statsWriter.ToggleBookmark(ctx, username, bookmarked)
		})
		s.emit(false)

	case viewstate.ReplyTo:
		if _, ok := s.comment(c.CommentId); !ok {
			log.Warn().Msgf("session: reply to unknown comment %s", c.CommentId)
			return
		}
		// replies stay one level deep
		c.CommentId = view.RootId(c.CommentId, s.comments)
		s.apply(ctx, group, c)

	case viewstate.Action:
		s.apply(ctx, group, c)

	default:
		log.Warn().Msgf("session: unknown command %T", cmd)
	}
}

func (s *Session) apply(ctx context.Context, group *errgroup.Group, action viewstate.Action) {
	var effects []viewstate.Effect
	s.state, effects = viewstate.Reduce(s.state, action)

	autoScroll := false
	for _, effect := range effects {
		switch e := effect.(type) {
		case viewstate.ScrollToBottom:
			autoScroll = true
		case viewstate.PostComment:
			s.post(ctx, group, e)
		}
	}
	s.emit(autoScroll)
}

func (s *Session) post(ctx context.Context, group *errgroup.Group, e viewstate.PostComment) {
	data := model.NewComment{
		Username:        s.viewer.Username,
		ProfileImageUrl: s.viewer.ProfileImageUrl,
	}
	if e.Text != "" {
		data.Text = utils.StringToPointer(e.Text)
	}
	if e.ImageUrl != "" {
		data.ImageUrl = utils.StringToPointer(e.ImageUrl)
	}
	if e.ParentId != "" {
		data.ParentId = utils.StringToPointer(e.ParentId)
	}

	group.Go(func() error {
		_, err := s.commentWriter.Add(ctx, data)
		if err != nil {
			log.Error().Err(err).Msgf("session: failed to post comment of %s", data.Username)
		}
		// postDoneCh has room: a new post only starts after PostFinished was applied
		s.postDoneCh <- err
		return nil
	})
}

// background runs a remote write whose failure is only logged.
func (s *Session) background(ctx context.Context, group *errgroup.Group, op string, fn func(context.Context) error) {
	group.Go(func() error {
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Msgf("session: failed to %s", op)
		}
		return nil
	})
}

func (s *Session) comment(id string) (model.Comment, bool) {
	for _, c := range s.comments {
		if c.Id == id {
			return c, true
		}
	}
	return model.Comment{}, false
}

func (s *Session) emit(autoScroll bool) {
	select {
	case old := <-s.framesCh:
		autoScroll = autoScroll || old.AutoScroll
	default:
	}
	s.framesCh <- newFrame(view.BuildThreads(s.comments, s.viewer.Username), view.BuildStats(s.stats, s.viewer.Username), s.state, autoScroll)
}
