package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ServerConfig struct {
	Port         string
	AllowOrigins string
	ArchiveDSN   string
	LogLevel     string
}

type ClientConfig struct {
	RelayURL string
	DataDir  string
	LogLevel string
}

// Load reads .env if present. A missing file is not an error.
func Load(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Err(err).Msg("no .env loaded")
	}
}

func Server() ServerConfig {
	return ServerConfig{
		Port:         getEnv("PORT", "3000"),
		AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
		ArchiveDSN:   getEnv("ARCHIVE_DSN", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func Client() ClientConfig {
	return ClientConfig{
		RelayURL: strings.TrimRight(getEnv("RELAY_URL", "http://localhost:3000"), "/"),
		DataDir:  getEnv("STARCHESS_DATA_DIR", ""),
		LogLevel: getEnv("LOG_LEVEL", "warn"),
	}
}

// SetLogLevel applies level globally, keeping the current level if it does
// not parse.
func SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
