package user

import (
	"context"

	"go-firestore-hampter/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, username string) (*model.User, error)
	CreateOrUpdate(ctx context.Context, username, profileImageUrl string) error
}
