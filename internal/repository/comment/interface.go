package comment

import (
	"context"

	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/repository/filter"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.Comment, error)
	List(ctx context.Context) ([]model.Comment, error)
	Add(ctx context.Context, data model.NewComment) (string, error)
	ToggleLike(ctx context.Context, id, username string, currentlyLiked bool) error
	Subscribe(ctx context.Context) <-chan CommentsEvent
	NotifyOnAdded(ctx context.Context, where []filter.Where) <-chan CommentEvent
	DeleteAll(ctx context.Context) (int, error)
}

// CommentsEvent is a full, time ordered snapshot of the comments collection.
type CommentsEvent struct {
	Comments []model.Comment
	Err      error
}

type CommentEvent struct {
	Comment model.Comment
	Err     error
}
