package userinteractions

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

type UserInteractionsRepository struct {
	db database.Client
}

var _ IRepository = UserInteractionsRepository{}

func New(db database.Client) UserInteractionsRepository {
	return UserInteractionsRepository{
		db: db,
	}
}

// GetByUsername returns the stored interactions, or empty ones when the user has none.
func (r UserInteractionsRepository) GetByUsername(ctx context.Context, username string) (*model.UserInteractions, error) {

	docSnap, err := r.db.GetDoc(ctx, r.db.Collection(userInteractionsNode).Doc(username))
	if err != nil && status.Code(err) != codes.NotFound {
		return nil, fmt.Errorf("get user interactions: %w, id: %s", err, username)
	}

	interactions, err := docToInteractions(docSnap)
	if err != nil {
		return nil, fmt.Errorf("get user interactions: %w, id: %s", err, username)
	}
	return &interactions, nil
}

func (r UserInteractionsRepository) Subscribe(ctx context.Context, username string) <-chan UserInteractionsEvent {

	ch := make(chan UserInteractionsEvent)
	docRef := r.db.Collection(userInteractionsNode).Doc(username)

	go func() {
		defer close(ch)

		for e := range r.db.NotifyOnDocSnapshots(ctx, docRef.Snapshots(ctx)) {
			if e.Err != nil {
				log.Error().Err(e.Err).Msg("user interactions repo: failed to read events")
				helper.NonblockingWrite[UserInteractionsEvent](ctx, channelWriteTimeout, ch, UserInteractionsEvent{Err: e.Err})
				return
			}

			interactions, err := docToInteractions(e.Doc)
			if err != nil {
				log.Error().Err(err).Msg("user interactions repo: failed to convert doc to user interactions")
				continue
			}

			if err := helper.NonblockingWrite[UserInteractionsEvent](ctx, channelWriteTimeout, ch, UserInteractionsEvent{Interactions: interactions}); err != nil {
				return
			}
		}
	}()

	return ch
}

func docToInteractions(doc *firestore.DocumentSnapshot) (model.UserInteractions, error) {
	interactions := model.EmptyUserInteractions()
	if doc == nil || !doc.Exists() {
		return interactions, nil
	}
	if err := doc.DataTo(&interactions); err != nil {
		return interactions, err
	}
	if interactions.LikedComments == nil {
		interactions.LikedComments = []string{}
	}
	return interactions, nil
}
