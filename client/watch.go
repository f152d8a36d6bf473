package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ierr "go-firestore-hampter/internal/errors"
	"go-firestore-hampter/internal/handler/session"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/sticker"
	"go-firestore-hampter/internal/viewstate"

	snapshotEventPublisher "go-firestore-hampter/internal/eventpublisher/snapshot"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const watchHelp = `type a line to comment, or:
  /reply <id>     reply to a comment      /cancel     stop replying
  /expand <id>    show or hide replies    /like <id>  like a comment
  /sticker <id>   post a sticker          /likevideo  like the video
  /bookmark       bookmark the video      /bottom     jump to the newest comment
  /dismiss        hide the alert          /help`

var errHelp = errors.New(watchHelp)

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the comment section live and comment from the prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.viewer()
			if err != nil {
				return err
			}

			a.connect(cmd.Context())
			viewer := model.User{Username: state.Username, ProfileImageUrl: state.ProfileImageUrl}
			if user, err := a.users.GetById(cmd.Context(), state.Username); err == nil {
				viewer = *user
			} else if !errors.Is(err, ierr.NotFound) {
				return err
			}

			publisherFactory := snapshotEventPublisher.SnapshotPublisherFactory(a.comments, a.videoStats)
			commentsPublisher := publisherFactory.OnComments()
			videoStatsPublisher := publisherFactory.OnVideoStats()
			sess := session.New(viewer, commentsPublisher, videoStatsPublisher, a.comments, a.videoStats)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, watchHelp)

			group, gctx := errgroup.WithContext(cmd.Context())
			group.Go(func() error {
				return commentsPublisher.Start(gctx)
			})
			group.Go(func() error {
				return videoStatsPublisher.Start(gctx)
			})
			group.Go(func() error {
				return sess.Run(gctx)
			})
			group.Go(func() error {
				for frame := range sess.Frames() {
					renderFrame(out, frame, time.Now())
				}
				return nil
			})
			group.Go(func() error {
				return forwardInput(gctx, readLines(cmd.InOrStdin()), sess, a.stickers, out)
			})

			err = group.Wait()
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		},
	}
}

// readLines is not tied to a context: a blocked read on stdin cannot be interrupted.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
			log.Warn().Err(err).Msg("failed to read input")
		}
	}()
	return lines
}

func forwardInput(ctx context.Context, lines <-chan string, sess *session.Session, stickers sticker.Catalog, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return io.EOF
			}
			cmds, err := parseLine(line, stickers)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			for _, cmd := range cmds {
				if err := sess.Send(ctx, cmd); err != nil {
					return err
				}
			}
		}
	}
}

// parseLine turns a prompt line into session commands. Plain text is typed and
// submitted in one go.
func parseLine(line string, stickers sticker.Catalog) ([]session.Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	if !strings.HasPrefix(line, "/") {
		return []session.Command{viewstate.InputChanged{Text: line}, viewstate.Submit{}}, nil
	}

	name, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	withArg := func(cmd session.Command) ([]session.Command, error) {
		if arg == "" {
			return nil, fmt.Errorf("/%s needs an id", name)
		}
		return []session.Command{cmd}, nil
	}

	switch name {
	case "reply":
		return withArg(viewstate.ReplyTo{CommentId: arg})
	case "cancel":
		return []session.Command{viewstate.CancelReply{}}, nil
	case "expand":
		return withArg(viewstate.ToggleReplies{CommentId: arg})
	case "like":
		return withArg(session.LikeComment{CommentId: arg})
	case "sticker":
		s, ok := stickers.Lookup(arg)
		if !ok {
			return nil, fmt.Errorf("unknown sticker %q", arg)
		}
		return []session.Command{viewstate.PickSticker{ImageUrl: s.Url}}, nil
	case "likevideo":
		return []session.Command{session.LikeVideo{}}, nil
	case "bookmark":
		return []session.Command{session.BookmarkVideo{}}, nil
	case "bottom":
		return []session.Command{viewstate.JumpToBottom{}}, nil
	case "dismiss":
		return []session.Command{viewstate.DismissAlert{}}, nil
	case "help":
		return nil, errHelp
	}
	return nil, fmt.Errorf("unknown command /%s, try /help", name)
}
