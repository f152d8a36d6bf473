package database

import (
	"context"
	"encoding/json"
	"fmt"

	"go-firestore-hampter/internal/config"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Connect builds a firebase app from the service account in cnf and returns a
// client for its Firestore database. The caller closes the client.
func Connect(ctx context.Context, cnf config.Firebase) (FirestoreClient, error) {
	creds, err := json.Marshal(cnf)
	if err != nil {
		return FirestoreClient{}, fmt.Errorf("connect: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(creds))
	if err != nil {
		return FirestoreClient{}, fmt.Errorf("connect: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return FirestoreClient{}, fmt.Errorf("connect: %w", err)
	}
	return New(client, cnf.WriteTimeoutSecond), nil
}

func ConnectOrPanic(ctx context.Context, cnf config.Firebase) FirestoreClient {
	client, err := Connect(ctx, cnf)
	if err != nil {
		panic(err)
	}
	return client
}
