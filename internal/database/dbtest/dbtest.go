// Package dbtest connects tests to the Firestore emulator.
package dbtest

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"go-firestore-hampter/internal/database"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

const EmulatorHostEnv = "FIRESTORE_EMULATOR_HOST"

// Client returns a client for a fresh emulator project, so tests never see each
// other's documents. The test is skipped when no emulator is configured.
func Client(t testing.TB) *database.FirestoreClient {
	t.Helper()

	if os.Getenv(EmulatorHostEnv) == "" {
		t.Skipf("%s is not set", EmulatorHostEnv)
	}

	projectId := "hampter-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	client, err := firestore.NewClient(context.Background(), projectId)
	if err != nil {
		t.Fatalf("connect to the emulator: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	db := database.New(client, 10*time.Second)
	return &db
}
