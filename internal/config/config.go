package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env      string
	HTTPPort string

	DatabaseURL      string
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnLifetime   time.Duration
	RedisAddr        string
	RateLimitBackend string
	RateLimitPerMin  int

	JWTSecret                string
	TokenTTL                 time.Duration
	SuperAdmins              []string
	StrictAuth               bool
	LegacyPlaintextPasswords bool

	CORSOrigin     string
	MaxUploadBytes int64
	UploadTimeout  time.Duration

	BlobBackend           string
	GoogleCredentialsPath string
	GoogleCredentialsJSON string
	UploadFolderID        string
	CloudinaryCloudName   string
	CloudinaryAPIKey      string
	CloudinaryAPISecret   string
	CloudinaryFolder      string
	B2AccountID           string
	B2ApplicationKey      string
	B2Bucket              string
}

// Load returns application config populated from environment variables.
// A .env file in the working directory is read first; variables already
// set in the environment take precedence.
func Load() App {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	return App{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPPort: getEnv("HTTP_PORT", "5000"),

		DatabaseURL:      databaseURL(),
		DBMaxOpenConns:   intEnv("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:   intEnv("DB_MAX_IDLE_CONNS", 1),
		DBConnLifetime:   durationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		RateLimitPerMin:  intEnv("RATE_LIMIT_PER_MIN", 120),

		JWTSecret:                getEnv("JWT_SECRET", ""),
		TokenTTL:                 durationEnv("TOKEN_TTL", 3*time.Hour),
		SuperAdmins:              listEnv("SUPER_ADMINS"),
		StrictAuth:               boolEnv("STRICT_AUTH", false),
		LegacyPlaintextPasswords: boolEnv("LEGACY_PLAINTEXT_PASSWORDS", false),

		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:5173"),
		MaxUploadBytes: int64(intEnv("MAX_UPLOAD_BYTES", 10<<20)),
		UploadTimeout:  durationEnv("UPLOAD_TIMEOUT", 20*time.Second),

		BlobBackend:           strings.ToLower(getEnv("BLOB_BACKEND", "drive")),
		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		UploadFolderID:        getEnv("UPLOAD_FOLDER_ID", ""),
		CloudinaryCloudName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:      getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:   getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:      getEnv("CLOUDINARY_FOLDER", "hostel-reports"),
		B2AccountID:           getEnv("B2_ACCOUNT_ID", ""),
		B2ApplicationKey:      getEnv("B2_APPLICATION_KEY", ""),
		B2Bucket:              getEnv("B2_BUCKET", ""),
	}
}

// Validate reports configuration the server cannot start with.
func (a App) Validate() error {
	var errs []error
	if a.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if a.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL or PG_PASSWORD is required"))
	}
	switch a.BlobBackend {
	case "none":
	case "drive":
		if a.GoogleCredentialsPath == "" && a.GoogleCredentialsJSON == "" {
			errs = append(errs, errors.New("drive backend needs GOOGLE_CREDENTIALS or GOOGLE_CREDENTIALS_JSON"))
		}
		if a.UploadFolderID == "" {
			errs = append(errs, errors.New("drive backend needs UPLOAD_FOLDER_ID"))
		}
	case "cloudinary":
		if a.CloudinaryCloudName == "" || a.CloudinaryAPIKey == "" || a.CloudinaryAPISecret == "" {
			errs = append(errs, errors.New("cloudinary backend needs CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET"))
		}
	case "b2":
		if a.B2AccountID == "" || a.B2ApplicationKey == "" || a.B2Bucket == "" {
			errs = append(errs, errors.New("b2 backend needs B2_ACCOUNT_ID, B2_APPLICATION_KEY and B2_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BLOB_BACKEND %q", a.BlobBackend))
	}
	switch a.RateLimitBackend {
	case "memory":
	case "redis":
		if a.RedisAddr == "" {
			errs = append(errs, errors.New("redis rate limiting needs REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", a.RateLimitBackend))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether gin should run in release mode.
func (a App) IsProduction() bool {
	return a.Env == "production" || a.Env == "prod"
}

func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	password := os.Getenv("PG_PASSWORD")
	if password == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("PG_USER", "postgres"), password),
		Host:     getEnv("PG_HOST", "localhost") + ":" + getEnv("PG_PORT", "5432"),
		Path:     "/" + getEnv("PG_NAME", "hostel_report"),
		RawQuery: "sslmode=" + getEnv("PG_SSLMODE", "disable"),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
