package videostats

import (
	"context"
	"fmt"

	"go-firestore-hampter/internal/database"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/repository/helper"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type VideoStatsRepository struct {
	db database.Client
}

var _ IRepository = VideoStatsRepository{}

func New(db database.Client) VideoStatsRepository {
	return VideoStatsRepository{
		db: db,
	}
}

// DocRef returns the singleton stats document.
func DocRef(db database.Client) *firestore.DocumentRef {
	return db.Collection(videoStatsNode).Doc(model.VideoStatsId)
}

// GetOrInit reads the stats document and writes the zero document when it is missing.
func (r VideoStatsRepository) GetOrInit(ctx context.Context) (*model.VideoStats, error) {
	docRef := DocRef(r.db)

	var stats *model.VideoStats
	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		if docSnap != nil && docSnap.Exists() {
			stats = &model.VideoStats{}
			return docSnap.DataTo(stats)
		}

		initial := model.EmptyVideoStats()
		stats = &initial
		return tx.Set(docRef, initial)
	})
	if err != nil {
		return nil, fmt.Errorf("get video stats: %w, id: %s", err, docRef.ID)
	}

	return stats, nil
}

func (r VideoStatsRepository) ToggleLike(ctx context.Context, username string, currentlyLiked bool) error {
	updates := helper.ToggleMembership(LikesCountFieldPath, LikedByFieldPath, username, currentlyLiked)
	if _, err := r.db.UpdateDoc(ctx, DocRef(r.db), updates); err != nil {
		return fmt.Errorf("toggle video like: %w, username: %s", err, username)
	}
	return nil
}

func (r VideoStatsRepository) ToggleBookmark(ctx context.Context, username string, currentlyBookmarked bool) error {
	updates := helper.ToggleMembership(BookmarksCountFieldPath, BookmarkedByFieldPath, username, currentlyBookmarked)
	if _, err := r.db.UpdateDoc(ctx, DocRef(r.db), updates); err != nil {
		return fmt.Errorf("toggle video bookmark: %w, username: %s", err, username)
	}
	return nil
}

// Reset overwrites the stats document with zeroed counters and empty reaction sets.
func (r VideoStatsRepository) Reset(ctx context.Context) error {
	if _, err := r.db.SetDoc(ctx, DocRef(r.db), model.EmptyVideoStats()); err != nil {
		return fmt.Errorf("reset video stats: %w", err)
	}
	return nil
}

// Subscribe emits the stats document every time it changes. Nothing is emitted
// while the document does not exist.
func (r VideoStatsRepository) Subscribe(ctx context.Context) <-chan VideoStatsEvent {

	ch := make(chan VideoStatsEvent)
	var writeFailureCount, writeFailureThreshold = 0, 3

	go func() {
		defer close(ch)

		for e := range r.db.NotifyOnDocSnapshots(ctx, DocRef(r.db).Snapshots(ctx)) {
			if writeFailureCount > writeFailureThreshold {
				log.Error().Msg("video stats repo: write failure threshould reached")
				return
			}

			if e.Err != nil {
				log.Error().Err(e.Err).Msg("video stats repo: failed to read events")
				helper.NonblockingWrite[VideoStatsEvent](ctx, channelWriteTimeout, ch, VideoStatsEvent{Err: e.Err})
				return
			}

			if e.Doc == nil || !e.Doc.Exists() {
				continue
			}

			stats := model.VideoStats{}
			if err := e.Doc.DataTo(&stats); err != nil {
				log.Error().Err(err).Msg("video stats repo: failed to convert doc to video stats")
				continue
			}

			if err := helper.NonblockingWrite[VideoStatsEvent](ctx, channelWriteTimeout, ch, VideoStatsEvent{Stats: stats}); err != nil {
				writeFailureCount++
			}
		}
	}()

	return ch
}
