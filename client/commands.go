package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ierr "go-firestore-hampter/internal/errors"
	"go-firestore-hampter/internal/imagehash"
	"go-firestore-hampter/internal/localstore"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/repository/filter"
	"go-firestore-hampter/internal/repository/helper"
	"go-firestore-hampter/internal/repository/ops"
	"go-firestore-hampter/internal/utils"
	"go-firestore-hampter/internal/validate"
	"go-firestore-hampter/internal/view"

	commentRepository "go-firestore-hampter/internal/repository/comment"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func loginCmd(a *app) *cobra.Command {
	var pfp string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Pick a username, a random hamster becomes the profile image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if err := validate.Username(username); err != nil {
				return err
			}

			state, err := a.store.Load()
			if err != nil {
				return err
			}
			if pfp == "" {
				pfp = state.ProfileImageUrl
			}
			if pfp == "" {
				pfp = a.stickers.RandomUrl()
			}

			a.connect(cmd.Context())
			if err := a.users.CreateOrUpdate(cmd.Context(), username, pfp); err != nil {
				return err
			}

			state.Username, state.ProfileImageUrl = username, pfp
			if err := a.store.Save(state); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&pfp, "pfp", "", "profile image url")
	return cmd
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.viewer()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "username:  %s\n", state.Username)
			fmt.Fprintf(out, "pfp:       %s\n", state.ProfileImageUrl)
			fmt.Fprintf(out, "following: %v\n", state.IsFollowing)

			a.connect(cmd.Context())
			user, err := a.users.GetById(cmd.Context(), state.Username)
			switch {
			case errors.Is(err, ierr.NotFound):
				fmt.Fprintln(out, "not registered yet, run login again")
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "joined:    %s\n", user.CreatedAt.Local().Format(time.RFC822))
			}

			interactions, err := a.interactions.GetByUsername(cmd.Context(), state.Username)
			if err != nil {
				log.Warn().Err(err).Msg("failed to read legacy interactions")
				return nil
			}
			if len(interactions.LikedComments) > 0 || interactions.LikedVideo || interactions.BookmarkedVideo {
				fmt.Fprintf(out, "legacy:    %d liked comments, liked video %v, bookmarked video %v\n",
					len(interactions.LikedComments), interactions.LikedVideo, interactions.BookmarkedVideo)
			}
			return nil
		},
	}
}

func followCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "follow",
		Short: "Follow or unfollow the creator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.store.Update(func(s *localstore.State) {
				s.IsFollowing = !s.IsFollowing
			})
			if err != nil {
				return err
			}
			if state.IsFollowing {
				fmt.Fprintln(cmd.OutOrStdout(), "following")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not following")
			}
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the comment section once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _ := a.store.Load()

			a.connect(cmd.Context())
			comments, err := a.comments.List(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := a.videoStats.GetOrInit(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderStats(out, view.BuildStats(*stats, state.Username))
			renderThreads(out, view.BuildThreads(comments, state.Username), func(string) bool { return all }, time.Now())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "expand every reply thread")
	return cmd
}

func commentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <text>...",
		Short: "Post a comment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.post(cmd, strings.Join(args, " "), "", "")
		},
	}
}

func replyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reply <comment-id> <text>...",
		Short: "Reply to a comment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.post(cmd, strings.Join(args[1:], " "), "", args[0])
		},
	}
}

func stickerCmd(a *app) *cobra.Command {
	var replyTo string

	cmd := &cobra.Command{
		Use:   "sticker <sticker-id>",
		Short: "Post a hamster sticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := a.stickers.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown sticker %s, see: hampter stickers", args[0])
			}
			return a.post(cmd, "", s.Url, replyTo)
		},
	}
	cmd.Flags().StringVar(&replyTo, "reply", "", "comment id to reply to")
	return cmd
}

// post adds a comment as the logged in user. A reply to a reply is attached to
// the top level comment.
func (a *app) post(cmd *cobra.Command, text, imageUrl, parentId string) error {
	state, err := a.viewer()
	if err != nil {
		return err
	}

	data := model.NewComment{
		Username:        state.Username,
		ProfileImageUrl: state.ProfileImageUrl,
	}
	if strings.TrimSpace(text) != "" {
		data.Text = utils.StringToPointer(text)
	}
	if imageUrl != "" {
		data.ImageUrl = utils.StringToPointer(imageUrl)
	}
	if err := validate.Struct(data); err != nil {
		return err
	}
	if data.IsEmpty() {
		return ierr.ErrEmptyComment
	}

	a.connect(cmd.Context())
	if parentId != "" {
		parent, err := a.comments.GetById(cmd.Context(), parentId)
		if err != nil {
			return fmt.Errorf("reply to %s: %w", parentId, err)
		}
		if parent.IsReply() {
			parentId = *parent.ParentId
		}
		data.ParentId = utils.StringToPointer(parentId)
	}

	id, err := a.comments.Add(cmd.Context(), data)
	if err != nil && id == "" {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Msg("comment stored, but a follow-up write failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func likeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <comment-id>",
		Short: "Like or unlike a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.viewer()
			if err != nil {
				return err
			}

			a.connect(cmd.Context())
			comment, err := a.comments.GetById(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			liked := comment.LikedByUser(state.Username)
			if err := a.comments.ToggleLike(cmd.Context(), comment.Id, state.Username, liked); err != nil {
				return err
			}
			r := view.Reaction{Count: comment.Likes, Members: comment.LikedBy}.Toggle(state.Username, liked)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", heart(!liked), r.Count)
			return nil
		},
	}
}

func likeVideoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like-video",
		Short: "Like or unlike the video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.viewer()
			if err != nil {
				return err
			}

			a.connect(cmd.Context())
			stats, err := a.videoStats.GetOrInit(cmd.Context())
			if err != nil {
				return err
			}

			liked := stats.LikedByUser(state.Username)
			if err := a.videoStats.ToggleLike(cmd.Context(), state.Username, liked); err != nil {
				return err
			}
			after := view.ToggleVideoLike(*stats, state.Username, liked)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", heart(!liked), after.Likes.Count)
			return nil
		},
	}
}

func bookmarkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark",
		Short: "Bookmark or unbookmark the video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.viewer()
			if err != nil {
				return err
			}

			a.connect(cmd.Context())
			stats, err := a.videoStats.GetOrInit(cmd.Context())
			if err != nil {
				return err
			}

			bookmarked := stats.BookmarkedByUser(state.Username)
			if err := a.videoStats.ToggleBookmark(cmd.Context(), state.Username, bookmarked); err != nil {
				return err
			}
			after := view.ToggleVideoBookmark(*stats, state.Username, bookmarked)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", bookmark(!bookmarked), after.Bookmarks.Count)
			return nil
		},
	}
}

func stickersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stickers",
		Short: "List the hamster stickers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range a.stickers.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-20s %s\n", s.Id, s.Name, s.Url)
			}
			return nil
		},
	}
}

func tailCmd(a *app) *cobra.Command {
	var (
		parentId string
		idle     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print comments as they are posted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var where []filter.Where
			if parentId != "" {
				where = append(where, filter.Where{Path: commentRepository.ParentIdFieldPath, Op: ops.Equal, Value: parentId})
			}

			a.connect(cmd.Context())
			out := cmd.OutOrStdout()
			events := a.comments.NotifyOnAdded(cmd.Context(), where)

			var streamErr error
			helper.DrainChannelWithTimeout(cmd.Context(), idle, events, func(e commentRepository.CommentEvent) bool {
				if e.Err != nil {
					streamErr = e.Err
					return false
				}
				renderComment(out, e.Comment, time.Now())
				return true
			})
			return streamErr
		},
	}
	cmd.Flags().StringVar(&parentId, "parent", "", "only replies to this comment")
	cmd.Flags().DurationVar(&idle, "idle", 10*time.Minute, "stop after this long without a new comment")
	return cmd
}

func resetCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every comment and zero the video stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("this deletes all comments, pass --yes to confirm")
			}

			a.connect(cmd.Context())
			n, err := a.comments.DeleteAll(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d comments\n", n)
			if err != nil {
				return err
			}
			if err := a.videoStats.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "video stats reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}

func dupesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dupes <dir>",
		Short: "Find duplicate and near duplicate sticker images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := imagehash.FindDuplicates(args[0])
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}
