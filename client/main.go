package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-firestore-hampter/internal/config"
	"go-firestore-hampter/internal/database"
	"go-firestore-hampter/internal/localstore"
	"go-firestore-hampter/internal/sticker"

	commentRepository "go-firestore-hampter/internal/repository/comment"
	userRepository "go-firestore-hampter/internal/repository/user"
	userInteractionsRepository "go-firestore-hampter/internal/repository/userinteractions"
	videoStatsRepository "go-firestore-hampter/internal/repository/videostats"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds what the commands share. The Firestore connection is opened on
// first use so that offline commands work without credentials.
type app struct {
	store    localstore.Store
	stickers sticker.Catalog

	connectOnce sync.Once
	db          database.FirestoreClient

	users        userRepository.UserRepository
	interactions userInteractionsRepository.UserInteractionsRepository
	comments     commentRepository.CommentRepository
	videoStats   videoStatsRepository.VideoStatsRepository
}

func (a *app) connect(ctx context.Context) {
	a.connectOnce.Do(func() {
		cnf := config.LoadConfigOrPanic()
		a.db = database.ConnectOrPanic(ctx, cnf.Firebase)
		a.users = userRepository.New(&a.db)
		a.interactions = userInteractionsRepository.New(&a.db)
		a.comments = commentRepository.New(&a.db)
		a.videoStats = videoStatsRepository.New(&a.db)
	})
}

func (a *app) close() {
	if a.db.Client != nil {
		a.db.Close()
	}
}

// viewer returns the saved login or an error asking to log in first.
func (a *app) viewer() (localstore.State, error) {
	state, err := a.store.Load()
	if err != nil {
		return state, err
	}
	if !state.LoggedIn() {
		return state, fmt.Errorf("not logged in, run: hampter login <username>")
	}
	return state, nil
}

func main() {

	cnf := config.LoadOrPanic[config.Client]()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{
		store:    localstore.New(cnf.StateFile),
		stickers: sticker.Default(),
	}
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "hampter",
		Short:        "Comment on the hampter video from the terminal",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		loginCmd(a),
		whoamiCmd(a),
		followCmd(a),
		listCmd(a),
		commentCmd(a),
		replyCmd(a),
		stickerCmd(a),
		likeCmd(a),
		likeVideoCmd(a),
		bookmarkCmd(a),
		stickersCmd(a),
		tailCmd(a),
		watchCmd(a),
		resetCmd(a),
		dupesCmd(),
	)
	return root
}
