package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ierr "go-firestore-hampter/internal/errors"
	"go-firestore-hampter/internal/handler/session"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/validate"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 1 << 12
)

var errClientGone = errors.New("websocket client gone")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if err := validate.Username(username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	viewer, err := s.viewer(r.Context(), username)
	if err != nil {
		log.Error().Err(err).Msgf("server: failed to load viewer %s", username)
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied
		log.Warn().Err(err).Msg("server: websocket upgrade failed")
		return
	}
	defer conn.Close()

	sess := session.New(viewer, s.cfg.CommentsPublisher, s.cfg.StatsPublisher, s.cfg.Comments, s.cfg.VideoStats)
	limiter := rate.NewLimiter(rate.Limit(s.cfg.CommandRate), s.cfg.CommandBurst)
	log.Info().Msgf("session %s opened for %s", sess.Id, username)

	group, ctx := errgroup.WithContext(r.Context())
	group.Go(func() error {
		return sess.Run(ctx)
	})
	group.Go(func() error {
		return writePump(ctx, conn, sess.Frames())
	})
	group.Go(func() error {
		return readPump(ctx, conn, sess, limiter)
	})
	group.Go(func() error {
		// unblocks the reader
		<-ctx.Done()
		conn.Close()
		return nil
	})

	err = group.Wait()
	log.Info().Err(err).Msgf("session %s closed for %s", sess.Id, username)
}

// viewer loads the profile of username, registering it with a random sticker
// as profile image when it does not exist yet.
func (s *Server) viewer(ctx context.Context, username string) (model.User, error) {
	user, err := s.cfg.Users.GetById(ctx, username)
	if err == nil {
		return *user, nil
	}
	if !errors.Is(err, ierr.NotFound) {
		return model.User{}, err
	}

	pfp := s.cfg.Stickers.RandomUrl()
	if err := s.cfg.Users.CreateOrUpdate(ctx, username, pfp); err != nil {
		return model.User{}, err
	}
	return model.User{Username: username, ProfileImageUrl: pfp}, nil
}

func readPump(ctx context.Context, conn *websocket.Conn, sess *session.Session, limiter *rate.Limiter) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("server: websocket read failed")
			}
			return errClientGone
		}

		if !limiter.Allow() {
			log.Warn().Msgf("server: session %s is sending too fast, command dropped", sess.Id)
			continue
		}

		cmd, err := decodeCommand(msg)
		if err != nil {
			log.Warn().Err(err).Msg("server: invalid websocket command")
			continue
		}

		if err := sess.Send(ctx, cmd); err != nil {
			return err
		}
	}
}

func writePump(ctx context.Context, conn *websocket.Conn, frames <-chan session.Frame) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return ctx.Err()
		case frame, ok := <-frames:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return nil
			}
			if err := conn.WriteJSON(frame); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("write ping: %w", err)
			}
		}
	}
}
