package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if errWrite := os.WriteFile(path, []byte(content), 0o600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	return path
}

func TestLoadDatabaseDSN_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "database-dsn: file-dsn.db\n")
	t.Setenv(EnvDBConnection, "env-dsn.db")

	dsn, errLoad := LoadDatabaseDSN(path)
	if errLoad != nil {
		t.Fatalf("load dsn: %v", errLoad)
	}
	if dsn != "env-dsn.db" {
		t.Fatalf("expected env dsn, got %q", dsn)
	}
}

func TestLoadDatabaseDSN_FileForms(t *testing.T) {
	t.Setenv(EnvDBConnection, "")

	flat := writeConfig(t, "database-dsn: flat.db\n")
	dsn, errLoad := LoadDatabaseDSN(flat)
	if errLoad != nil || dsn != "flat.db" {
		t.Fatalf("expected flat.db, got %q err=%v", dsn, errLoad)
	}

	nested := writeConfig(t, "database:\n  dsn: nested.db\n")
	dsn, errLoad = LoadDatabaseDSN(nested)
	if errLoad != nil || dsn != "nested.db" {
		t.Fatalf("expected nested.db, got %q err=%v", dsn, errLoad)
	}

	empty := writeConfig(t, "{}\n")
	if _, errLoad = LoadDatabaseDSN(empty); errLoad != ErrMissingDatabaseDSN {
		t.Fatalf("expected ErrMissingDatabaseDSN, got %v", errLoad)
	}
}

func TestLoadJWTConfig_DefaultsAndOverrides(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	t.Setenv(EnvJWTExpiry, "")

	path := writeConfig(t, "jwt:\n  secret: file-secret\n")
	cfg, errLoad := LoadJWTConfig(path)
	if errLoad != nil {
		t.Fatalf("load jwt: %v", errLoad)
	}
	if cfg.Secret != "file-secret" {
		t.Fatalf("expected file secret, got %q", cfg.Secret)
	}
	if cfg.Expiry != defaultJWTExpiry {
		t.Fatalf("expected default expiry, got %v", cfg.Expiry)
	}

	t.Setenv(EnvJWTSecret, "env-secret")
	t.Setenv(EnvJWTExpiry, "30m")
	cfg, errLoad = LoadJWTConfig(path)
	if errLoad != nil {
		t.Fatalf("load jwt with env: %v", errLoad)
	}
	if cfg.Secret != "env-secret" || cfg.Expiry != 30*time.Minute {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoadGatewayConfig(t *testing.T) {
	t.Setenv(EnvGatewayKey, "")

	path := writeConfig(t, "gateway:\n  key: \"  file-key  \"\n")
	cfg, errLoad := LoadGatewayConfig(path)
	if errLoad != nil {
		t.Fatalf("load gateway: %v", errLoad)
	}
	if cfg.Key != "file-key" {
		t.Fatalf("expected trimmed file key, got %q", cfg.Key)
	}

	t.Setenv(EnvGatewayKey, "env-key")
	cfg, errLoad = LoadGatewayConfig(path)
	if errLoad != nil || cfg.Key != "env-key" {
		t.Fatalf("expected env key, got %q err=%v", cfg.Key, errLoad)
	}
}

func TestLoadAdminBootstrap(t *testing.T) {
	t.Setenv(EnvAdminUsername, "")
	t.Setenv(EnvAdminPassword, "")

	path := writeConfig(t, "admin:\n  username: root\n  password: hunter2\n")
	cfg, errLoad := LoadAdminBootstrap(path)
	if errLoad != nil {
		t.Fatalf("load bootstrap: %v", errLoad)
	}
	if cfg.Username != "root" || cfg.Password != "hunter2" {
		t.Fatalf("expected file credentials, got %+v", cfg)
	}

	t.Setenv(EnvAdminUsername, "admin")
	cfg, errLoad = LoadAdminBootstrap(path)
	if errLoad != nil || cfg.Username != "admin" {
		t.Fatalf("expected env username, got %+v err=%v", cfg, errLoad)
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath("   "); !filepath.IsAbs(got) {
		t.Fatalf("expected absolute default path, got %q", got)
	}
	if got := ResolveConfigPath("some/rel.yaml"); !filepath.IsAbs(got) {
		t.Fatalf("expected absolute resolved path, got %q", got)
	}
}
