package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func setFirebaseEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"FIREBASE_TYPE":                        "service_account",
		"FIREBASE_PROJECT_ID":                  "hampter",
		"FIREBASE_PRIVATE_KEY_ID":              "key-id",
		"FIREBASE_PRIVATE_KEY":                 base64.StdEncoding.EncodeToString([]byte(`-----BEGIN KEY-----\nabc\n-----END KEY-----`)),
		"FIREBASE_CLIENT_EMAIL":                "svc@hampter.iam.gserviceaccount.com",
		"FIREBASE_CLIENT_ID":                   "1234",
		"FIREBASE_AUTH_URI":                    "https://accounts.google.com/o/oauth2/auth",
		"FIREBASE_TOKEN_URI":                   "https://oauth2.googleapis.com/token",
		"FIREBASE_AUTH_PROVIDER_X509_CERT_URL": "https://www.googleapis.com/oauth2/v1/certs",
		"FIREBASE_CLIENT_X509_CERT_URL":        "https://www.googleapis.com/robot/v1/metadata/x509/svc",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	setFirebaseEnv(t)
	t.Setenv("WS_COMMAND_BURST", "0")

	cnf := LoadConfigOrPanic()

	if cnf.PrivateKey != "-----BEGIN KEY-----\nabc\n-----END KEY-----" {
		t.Errorf("private key = %q", cnf.PrivateKey)
	}
	if cnf.WriteTimeoutSecond != 30*time.Second {
		t.Errorf("write timeout = %s", cnf.WriteTimeoutSecond)
	}
	if cnf.Server.Addr != ":8080" || cnf.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("server = %+v", cnf.Server)
	}
	if cnf.Server.CommandBurst != 1 {
		t.Errorf("command burst = %d, want 1", cnf.Server.CommandBurst)
	}
	if cnf.Client.StateFile != ".hampter.yaml" {
		t.Errorf("state file = %q", cnf.Client.StateFile)
	}
}

func TestLoadConfigPanicsWithoutCredentials(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	LoadConfigOrPanic()
}

func TestLoadSection(t *testing.T) {
	t.Setenv("HAMPTER_STATE_FILE", "/tmp/state.yaml")

	if got := LoadOrPanic[Client]().StateFile; got != "/tmp/state.yaml" {
		t.Errorf("state file = %q", got)
	}
}

func TestLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := (Config{LogLevel: in}).Level(); got != want {
			t.Errorf("Level(%q) = %s, want %s", in, got, want)
		}
	}
}
