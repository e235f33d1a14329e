package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by FLUXO_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("FLUXO_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// Env returns the deployment environment. Defaults to "lab".
// Valid values: lab, prod
func Env() string {
	e := os.Getenv("ENV")
	if e == "" {
		return "lab"
	}
	return e
}

func IsProd() bool {
	return Env() == "prod"
}

// JWTSecret returns the HS256 signing secret for access tokens.
func JWTSecret() string {
	return os.Getenv("AUTH_JWT_SECRET")
}

// JWTTTL returns the access token lifetime.
// Defaults to 60 minutes if not set.
func JWTTTL() time.Duration {
	mins, err := strconv.Atoi(os.Getenv("AUTH_JWT_TTL_MIN"))
	if err != nil || mins <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(mins) * time.Minute
}

// AuthEmail is the bootstrap login identity checked against tenant_members.
func AuthEmail() string {
	return os.Getenv("AUTH_EMAIL")
}

// AuthPasswordHash is the bcrypt hash the bootstrap login verifies against.
func AuthPasswordHash() string {
	return os.Getenv("AUTH_PASSWORD_HASH")
}

// AIEnabled gates the external suggestion provider. Defaults to false.
func AIEnabled() bool {
	v, err := strconv.ParseBool(os.Getenv("AI_ENABLED"))
	if err != nil {
		return false
	}
	return v
}

// AIProvider returns the configured suggestion provider.
// Defaults to "null" if not set.
// Valid values: null, http, mock
func AIProvider() string {
	p := os.Getenv("AI_PROVIDER")
	if p == "" {
		return "null"
	}
	return p
}

func AIBaseURL() string {
	return os.Getenv("AI_BASE_URL")
}

func AIAPIKey() string {
	return os.Getenv("AI_API_KEY")
}

// AITimeout returns the per-call budget for the external provider.
// Defaults to 8 seconds if not set.
func AITimeout() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("AI_TIMEOUT_S"))
	if err != nil || secs <= 0 {
		return 8 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// Validate enforces the settings that must not fall back to defaults in
// production: a database URL always, a signing secret when ENV=prod.
func Validate() error {
	if DatabaseURL() == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if IsProd() && JWTSecret() == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required when ENV=prod")
	}
	return nil
}
