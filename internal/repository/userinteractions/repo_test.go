package userinteractions

import (
	"context"
	"reflect"
	"testing"

	"go-firestore-hampter/internal/database/dbtest"
	"go-firestore-hampter/internal/model"
)

func TestDocToInteractionsMissing(t *testing.T) {
	got, err := docToInteractions(nil)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !reflect.DeepEqual(got, model.EmptyUserInteractions()) {
		t.Errorf("got %+v", got)
	}
}

func TestGetByUsername(t *testing.T) {
	db := dbtest.Client(t)
	repo := New(db)
	ctx := context.Background()

	none, err := repo.GetByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("get unknown: %v", err)
	}
	if none.LikedComments == nil || len(none.LikedComments) != 0 || none.LikedVideo {
		t.Errorf("unknown user = %+v", none)
	}

	stored := model.UserInteractions{LikedComments: []string{"a", "b"}, LikedVideo: true}
	if _, err := db.SetDoc(ctx, db.Collection(userInteractionsNode).Doc("bob"), stored); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(*got, stored) {
		t.Errorf("got %+v, want %+v", *got, stored)
	}
}
