package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead_OverlaysDefaults(t *testing.T) {
	cfg := defaults()
	src := `
store_backend = "sqlite"
sqlite_path = "/var/lib/collab/collab.db"
avatar_size = 64
compress = true
`
	if err := Read(strings.NewReader(src), cfg); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if cfg.StoreBackend != BackendSQLite {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendSQLite)
	}
	if cfg.SQLitePath != "/var/lib/collab/collab.db" {
		t.Errorf("SQLitePath = %q", cfg.SQLitePath)
	}
	if cfg.AvatarSize != 64 {
		t.Errorf("AvatarSize = %d, want 64", cfg.AvatarSize)
	}
	if !cfg.Compress {
		t.Error("Compress = false, want true")
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
}

func TestRead_InvalidTOML(t *testing.T) {
	if err := Read(strings.NewReader("port = "), defaults()); err == nil {
		t.Fatal("Read() expected error for invalid TOML")
	}
}

// clearEnv blanks every variable Load reads. getEnv treats an empty value
// as unset, and godotenv does not override a variable that is present.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "ENV", "LOG_LEVEL", "STORE_BACKEND",
		"POSTGRES_CONN_STR", "SQLITE_PATH", "MONGO_URI", "MONGO_DATABASE",
		"JWT_SECRET", "AVATAR_SERVER", "AVATAR_SIZE", "COMPRESS",
		"FIREBASE_CREDENTIALS_PATH", "ADMIN_ACCOUNT", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "collab.toml")
	if err := os.WriteFile(path, []byte("store_backend = \"sqlite\"\nport = \"9000\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("Port = %q, want 9100", cfg.Port)
	}
	if cfg.StoreBackend != BackendSQLite {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendSQLite)
	}
	if cfg.PostgresConnStr != "" {
		t.Errorf("PostgresConnStr = %q, want empty", cfg.PostgresConnStr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"postgres without dsn", func(c *Config) { c.StoreBackend = BackendPostgres }, true},
		{"postgres with dsn", func(c *Config) { c.PostgresConnStr = "postgres://localhost/collab" }, false},
		{"sqlite", func(c *Config) { c.StoreBackend = BackendSQLite }, false},
		{"mongo missing uri", func(c *Config) {
			c.StoreBackend = BackendMongo
			c.PostgresConnStr = "postgres://localhost/collab"
		}, true},
		{"unknown backend", func(c *Config) { c.StoreBackend = "cassandra" }, true},
		{"admin without password", func(c *Config) {
			c.StoreBackend = BackendSQLite
			c.AdminAccount = "root"
			c.AdminEmail = "root@example.com"
		}, true},
		{"admin complete", func(c *Config) {
			c.StoreBackend = BackendSQLite
			c.AdminAccount = "root"
			c.AdminEmail = "root@example.com"
			c.AdminPassword = "root-password"
		}, false},
		{"default secret in production", func(c *Config) {
			c.StoreBackend = BackendSQLite
			c.Env = "production"
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
