package videostats

import (
	"context"

	"go-firestore-hampter/internal/model"
)

type IRepository interface {
	GetOrInit(ctx context.Context) (*model.VideoStats, error)
	Subscribe(ctx context.Context) <-chan VideoStatsEvent
	ToggleLike(ctx context.Context, username string, currentlyLiked bool) error
	ToggleBookmark(ctx context.Context, username string, currentlyBookmarked bool) error
	Reset(ctx context.Context) error
}

type VideoStatsEvent struct {
	Stats model.VideoStats
	Err   error
}
