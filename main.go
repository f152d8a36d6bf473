package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-firestore-hampter/internal/config"
	"go-firestore-hampter/internal/database"
	"go-firestore-hampter/internal/server"
	"go-firestore-hampter/internal/sticker"

	snapshotEventPublisher "go-firestore-hampter/internal/eventpublisher/snapshot"
	commentRepository "go-firestore-hampter/internal/repository/comment"
	userRepository "go-firestore-hampter/internal/repository/user"
	userInteractionsRepository "go-firestore-hampter/internal/repository/userinteractions"
	videoStatsRepository "go-firestore-hampter/internal/repository/videostats"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {

	cnf := config.LoadConfigOrPanic()
	zerolog.SetGlobalLevel(cnf.Level())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	defer close(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	firestoreClient := database.ConnectOrPanic(ctx, cnf.Firebase)
	defer firestoreClient.Close()

	userRepo := userRepository.New(&firestoreClient)
	interactionsRepo := userInteractionsRepository.New(&firestoreClient)
	commentRepo := commentRepository.New(&firestoreClient)
	videoStatsRepo := videoStatsRepository.New(&firestoreClient)

	// the reaction toggles update the stats document in place, so it has to exist
	if _, err := videoStatsRepo.GetOrInit(ctx); err != nil {
		panic(err)
	}

	publisherFactory := snapshotEventPublisher.SnapshotPublisherFactory(commentRepo, videoStatsRepo)
	commentsPublisher := publisherFactory.OnComments()
	videoStatsPublisher := publisherFactory.OnVideoStats()

	group, gctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Addr: cnf.Server.Addr,
		Handler: server.New(server.Config{
			Users:             userRepo,
			Interactions:      interactionsRepo,
			Comments:          commentRepo,
			VideoStats:        videoStatsRepo,
			CommentsPublisher: commentsPublisher,
			StatsPublisher:    videoStatsPublisher,
			Stickers:          sticker.Default(),
			CommandRate:       cnf.Server.CommandRate,
			CommandBurst:      cnf.Server.CommandBurst,
		}),
		// websocket sessions end with the root context
		BaseContext:       func(net.Listener) context.Context { return gctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	group.Go(func() error {
		return commentsPublisher.Start(gctx)
	})
	group.Go(func() error {
		return videoStatsPublisher.Start(gctx)
	})
	group.Go(func() error {
		log.Info().Msgf("listening on %s", cnf.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cnf.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	select {
	case <-sigs:
		// Received a termination signal, continue to shutdown
	case <-gctx.Done():
		// errgroup encountered an error, continue to shutdown
	}

	cancel() // cancel the root context to signal all the consumers

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("shutdown")
			os.Exit(1)
		}
		os.Exit(0)
	case <-time.After(cnf.Server.ShutdownTimeout):
		// Give enough time to close all the pending resources
	case <-sigs:
		// Forcefully terminate the app with a signal
	}

	os.Exit(1)
}
