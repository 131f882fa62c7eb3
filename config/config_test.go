package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Debug: true,
		Server: Server{
			Address:   "127.0.0.1",
			Port:      4000,
			PublicUrl: "https://example.org",
			Limits: ServerLimits{
				MaxFileSize: 5 * 1024 * 1024,
			},
		},
		Storage: Storage{
			Strategy: "filesystem",
			Filesystem: &FilesystemStrategy{
				Path: "/var/lib/pixrelay/uploads",
			},
		},
	}
}

func TestValidate_Success(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
}

func TestValidate_FailsForRelativeUploadPath(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Filesystem.Path = "uploads"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for relative path")
	}
}

func TestValidate_FailsForUnknownStrategy(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Strategy = "carrier-pigeon"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for unknown strategy")
	}
}

func TestValidate_FailsWhenS3ConfigMissing(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Strategy = "s3"
	cfg.Storage.S3 = nil

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail when s3 config is missing")
	}
}

func TestValidate_AllowsEmptyPublicUrl(t *testing.T) {
	cfg := validConfig()
	cfg.Server.PublicUrl = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected empty public_url to be allowed, got %v", err)
	}
}

func TestValidate_FailsForBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for out-of-range port")
	}
}

func TestLoadConfig_Success(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yml")

	yaml := `debug: true
server:
  address: "127.0.0.1"
  port: 4000
  public_url: "http://192.168.1.10:4000"
storage:
  strategy: filesystem
  filesystem:
    path: /var/lib/pixrelay/uploads
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Fatalf("unexpected port %d", cfg.Server.Port)
	}
	if cfg.Server.Limits.MaxFileSize != 5*1024*1024 {
		t.Fatalf("expected default max_file_size, got %d", cfg.Server.Limits.MaxFileSize)
	}
	if cfg.Storage.Filesystem == nil || cfg.Storage.Filesystem.Path != "/var/lib/pixrelay/uploads" {
		t.Fatalf("filesystem strategy not populated: %+v", cfg.Storage)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadConfig_InvalidConfig(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yml")

	yaml := `server:
  address: "127.0.0.1"
  port: 4000
storage:
  strategy: filesystem
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected validation error when filesystem config is missing")
	}
}
