package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo" // posts in MongoDB, everything else in PostgreSQL
)

type Config struct {
	Port                    string `toml:"port"`
	Env                     string `toml:"env"`
	LogLevel                string `toml:"log_level"`
	StoreBackend            string `toml:"store_backend"`
	PostgresConnStr         string `toml:"postgres_conn_str"`
	SQLitePath              string `toml:"sqlite_path"`
	MongoURI                string `toml:"mongo_uri"`
	MongoDatabase           string `toml:"mongo_database"`
	JWTSecret               string `toml:"jwt_secret"`
	AvatarServer            string `toml:"avatar_server"`
	AvatarSize              int    `toml:"avatar_size"`
	FirebaseCredentialsPath string `toml:"firebase_credentials_path"`
	Compress                bool   `toml:"compress"`
	AdminAccount            string `toml:"admin_account"`
	AdminEmail              string `toml:"admin_email"`
	AdminPassword           string `toml:"admin_password"`
}

func defaults() *Config {
	return &Config{
		Port:          "8080",
		Env:           "development",
		LogLevel:      "info",
		StoreBackend:  BackendPostgres,
		SQLitePath:    "collab.db",
		MongoDatabase: "collab",
		JWTSecret:     "supersecretjwtkey",
		AvatarServer:  "https://www.gravatar.com",
		AvatarSize:    80,
	}
}

// Load builds the configuration from defaults, the optional TOML file named
// by CONFIG_FILE, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()
		if err := Read(f, cfg); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes TOML from r over the values already in cfg.
func Read(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.StoreBackend = getEnv("STORE_BACKEND", cfg.StoreBackend)
	cfg.PostgresConnStr = getEnv("POSTGRES_CONN_STR", cfg.PostgresConnStr)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AvatarServer = getEnv("AVATAR_SERVER", cfg.AvatarServer)
	cfg.FirebaseCredentialsPath = getEnv("FIREBASE_CREDENTIALS_PATH", cfg.FirebaseCredentialsPath)
	cfg.AdminAccount = getEnv("ADMIN_ACCOUNT", cfg.AdminAccount)
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)
	if v, err := strconv.Atoi(getEnv("AVATAR_SIZE", "")); err == nil {
		cfg.AvatarSize = v
	}
	if v, err := strconv.ParseBool(getEnv("COMPRESS", "")); err == nil {
		cfg.Compress = v
	}
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.PostgresConnStr == "" {
			return fmt.Errorf("POSTGRES_CONN_STR is required for the %s backend", c.StoreBackend)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s backend", c.StoreBackend)
		}
	case BackendMongo:
		if c.PostgresConnStr == "" || c.MongoURI == "" {
			return fmt.Errorf("POSTGRES_CONN_STR and MONGO_URI are required for the %s backend", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.AdminAccount != "" && (c.AdminEmail == "" || c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required when ADMIN_ACCOUNT is set")
	}
	if c.Env == "production" && c.JWTSecret == defaults().JWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
