package userinteractions

import (
	"context"

	"go-firestore-hampter/internal/model"
)

// IRepository is read only. The collection is a legacy cache that nothing
// writes to anymore.
type IRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.UserInteractions, error)
	Subscribe(ctx context.Context, username string) <-chan UserInteractionsEvent
}

type UserInteractionsEvent struct {
	Interactions model.UserInteractions
	Err          error
}
