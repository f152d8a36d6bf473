package snapshot

import (
	"context"

	"go-firestore-hampter/internal/eventpublisher/event"
	commentRepo "go-firestore-hampter/internal/repository/comment"
	videoStatsRepo "go-firestore-hampter/internal/repository/videostats"
)

type Factory interface {
	OnComments() SnapshotPublisher
	OnVideoStats() SnapshotPublisher
}

type factory struct {
	commentRepo    commentRepo.IRepository
	videoStatsRepo videoStatsRepo.IRepository
}

func SnapshotPublisherFactory(commentRepo commentRepo.IRepository, videoStatsRepo videoStatsRepo.IRepository) Factory {
	return &factory{
		commentRepo:    commentRepo,
		videoStatsRepo: videoStatsRepo,
	}
}

// OnComments publishes []model.Comment messages, oldest comment first.
func (f *factory) OnComments() SnapshotPublisher {
	return newPublisher(event.CommentsSnapshot, func(ctx context.Context) <-chan event.Event {
		return forward(ctx, f.commentRepo.Subscribe(ctx), func(e commentRepo.CommentsEvent) event.Event {
			return event.Event{Type: event.CommentsSnapshot, Message: e.Comments, Err: e.Err}
		})
	})
}

// OnVideoStats publishes model.VideoStats messages.
func (f *factory) OnVideoStats() SnapshotPublisher {
	return newPublisher(event.VideoStatsSnapshot, func(ctx context.Context) <-chan event.Event {
		return forward(ctx, f.videoStatsRepo.Subscribe(ctx), func(e videoStatsRepo.VideoStatsEvent) event.Event {
			return event.Event{Type: event.VideoStatsSnapshot, Message: e.Stats, Err: e.Err}
		})
	})
}

func forward[T any](ctx context.Context, in <-chan T, convert func(T) event.Event) <-chan event.Event {
	out := make(chan event.Event)
	go func() {
		defer close(out)
		for e := range in {
			select {
			case out <- convert(e):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
