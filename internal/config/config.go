package config

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Firebase struct {
	Type                    string        `env:"FIREBASE_TYPE,required" json:"type"`
	ProjectId               string        `env:"FIREBASE_PROJECT_ID,required" json:"project_id"`
	PrivateKeyId            string        `env:"FIREBASE_PRIVATE_KEY_ID,required" json:"private_key_id"`
	PrivateKey              string        `env:"FIREBASE_PRIVATE_KEY,required" json:"private_key"`
	ClientEmail             string        `env:"FIREBASE_CLIENT_EMAIL,required" json:"client_email"`
	ClientId                string        `env:"FIREBASE_CLIENT_ID,required" json:"client_id"`
	AuthUri                 string        `env:"FIREBASE_AUTH_URI,required" json:"auth_uri"`
	TokenUri                string        `env:"FIREBASE_TOKEN_URI,required" json:"token_uri"`
	AuthProviderX509CertUrl string        `env:"FIREBASE_AUTH_PROVIDER_X509_CERT_URL,required" json:"auth_provider_x509_cert_url"`
	ClientX509CertUrl       string        `env:"FIREBASE_CLIENT_X509_CERT_URL,required" json:"client_x509_cert_url"`
	WriteTimeoutSecond      time.Duration `env:"FIREBASE_WRITE_TIMEOUT_SECOND" json:"-"`
}

type Server struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	// Inbound websocket commands per second per session
	CommandRate  float64 `env:"WS_COMMAND_RATE" envDefault:"20"`
	CommandBurst int     `env:"WS_COMMAND_BURST" envDefault:"40"`
}

type Client struct {
	StateFile string `env:"HAMPTER_STATE_FILE" envDefault:".hampter.yaml"`
}

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Firebase
	Server
	Client
}

func LoadConfigOrPanic() Config {
	config := LoadOrPanic[Config]()
	config.normalize()
	return config
}

// LoadOrPanic parses a single config section, for tools that do not need the
// whole configuration.
func LoadOrPanic[T any]() T {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	var section *T = new(T)
	if err := env.Parse(section); err != nil {
		panic(err)
	}
	return *section
}

func (c *Config) normalize() {

	decodedBytes, err := base64.StdEncoding.DecodeString(c.Firebase.PrivateKey)
	if err != nil {
		panic(err)
	}
	c.Firebase.PrivateKey = string(decodedBytes)
	c.Firebase.PrivateKey = strings.ReplaceAll(c.Firebase.PrivateKey, "\\n", "\n")

	if c.WriteTimeoutSecond == 0 {
		c.WriteTimeoutSecond = time.Second * 30
	}

	if c.CommandBurst < 1 {
		c.CommandBurst = 1
	}
}

// Level maps LOG_LEVEL onto a zerolog level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
