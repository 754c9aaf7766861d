package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets and TTLs are injected here once at
// startup; business logic never reads process-wide state directly.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTAccessSecret  string // secret used to sign access tokens
	JWTRefreshSecret string // secret used to sign refresh tokens
	AccessTTLMin     int    // access token time-to-live in minutes
	RefreshTTLDays   int    // refresh token time-to-live in days
	InviteTTLDays    int    // invite token time-to-live in days
	BcryptCost       int    // bcrypt cost for password hashing

	QRBaseURL    string // public base URL encoded into animal QR codes
	CookieSecure bool   // mark the refresh cookie Secure
	CookieDomain string // optional cookie domain

	SuperAdminEmail    string // bootstrap super admin email (optional)
	SuperAdminPassword string // bootstrap super admin password (optional)

	LogLevel  string // logrus level (debug/info/warn/error)
	LogFormat string // logrus format (text/json)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTAccessSecret:  must("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: must("JWT_REFRESH_SECRET"),
		AccessTTLMin:     intDefault("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays:   intDefault("REFRESH_TOKEN_TTL_DAYS", 30),
		InviteTTLDays:    intDefault("INVITE_TTL_DAYS", 7),
		BcryptCost:       intDefault("BCRYPT_COST", 12),

		QRBaseURL:    must("QR_BASE_URL"),
		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),

		SuperAdminEmail:    os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminPassword: os.Getenv("SUPER_ADMIN_PASSWORD"),

		LogLevel:  strDefault("LOG_LEVEL", "info"),
		LogFormat: strDefault("LOG_FORMAT", "text"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func strDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
