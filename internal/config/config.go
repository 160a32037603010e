package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. The service never
// crashes on missing datastore settings; callers consult MissingVars and
// degrade instead.
type Config struct {
	Port           string
	DatabaseURL    string
	FrontendOrigin string
	AMQPURL        string
	AMQPExchange   string
	Environment    string
	BcryptCost     int
	DebugRoutes    bool
}

// Load reads a .env file if present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "*"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "event_service"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		BcryptCost:     0, // 0 lets bcrypt pick its default cost
		DebugRoutes:    os.Getenv("DEBUG_ROUTES") == "true",
	}
}

// MissingVars lists required settings that are absent. A non-empty result
// means data routes answer with a uniform "not configured" response.
func (c Config) MissingVars() []string {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	return missing
}

// Configured reports whether the datastore can be reached at all.
func (c Config) Configured() bool {
	return len(c.MissingVars()) == 0
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
