package user

import (
	"context"
	"fmt"

	"go-firestore-hampter/internal/database"
	ierr "go-firestore-hampter/internal/errors"
	"go-firestore-hampter/internal/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type UserRepository struct {
	db database.Client
}

var _ IRepository = UserRepository{}

func New(db database.Client) UserRepository {
	return UserRepository{
		db: db,
	}
}

func (r UserRepository) GetById(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, ierr.NotFound
	}

	docSnap, err := r.db.GetDoc(ctx, r.db.Collection(userNode).Doc(username))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ierr.NotFound
		}
		return nil, fmt.Errorf("get user: %w, id: %s", err, username)
	}

	user := &model.User{}
	if err = docSnap.DataTo(user); err != nil {
		return nil, fmt.Errorf("get user: %w, id: %s", err, username)
	}
	return user, nil
}

// CreateOrUpdate upserts the user keyed by username. createdAt is written once,
// when the document is first created.
func (r UserRepository) CreateOrUpdate(ctx context.Context, username, profileImageUrl string) error {
	docRef := r.db.Collection(userNode).Doc(username)

	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		fields := map[string]interface{}{
			UsernameFieldPath: username,
			PfpFieldPath:      profileImageUrl,
		}
		if docSnap == nil || !docSnap.Exists() {
			fields[CreatedAtFieldPath] = firestore.ServerTimestamp
		}
		return tx.Set(docRef, fields, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("create or update user: %w, id: %s", err, username)
	}
	return nil
}
