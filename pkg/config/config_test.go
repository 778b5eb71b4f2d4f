package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary directory for test files
	tempDir, err := os.MkdirTemp("", "static-server-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Test case 1: Valid configuration file
	validConfigPath := filepath.Join(tempDir, "valid-config.yaml")
	validConfigContent := `
server:
  root_dir: /srv/www
  default_port: 8080
  confine_root: true
  shutdown_timeout: 30
logging:
  log_to_file: true
  log_file_path: /var/log/static-server.log
  max_size: 50
`
	err = os.WriteFile(validConfigPath, []byte(validConfigContent), 0644)
	if err != nil {
		t.Fatalf("Failed to write valid config file: %v", err)
	}

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("Failed to load valid config: %v", err)
	}

	if cfg.Server.RootDir != "/srv/www" {
		t.Errorf("Expected root dir '/srv/www', got '%s'", cfg.Server.RootDir)
	}

	if cfg.Server.DefaultPort != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.DefaultPort)
	}

	if !cfg.Server.ConfineRoot {
		t.Errorf("Expected confine_root to be enabled")
	}

	if cfg.Server.ShutdownTimeout != 30 {
		t.Errorf("Expected shutdown timeout 30, got %d", cfg.Server.ShutdownTimeout)
	}

	if !cfg.Logging.LogToFile {
		t.Errorf("Expected log_to_file to be enabled")
	}

	if cfg.Logging.LogFilePath != "/var/log/static-server.log" {
		t.Errorf("Expected log file path '/var/log/static-server.log', got '%s'", cfg.Logging.LogFilePath)
	}

	if cfg.Logging.MaxSize != 50 {
		t.Errorf("Expected max size 50, got %d", cfg.Logging.MaxSize)
	}

	// Unset logging fields keep their defaults
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("Expected default max backups 3, got %d", cfg.Logging.MaxBackups)
	}

	// Test case 2: Minimal configuration file
	minimalConfigPath := filepath.Join(tempDir, "minimal-config.yaml")
	minimalConfigContent := `
server:
  confine_root: true
`
	err = os.WriteFile(minimalConfigPath, []byte(minimalConfigContent), 0644)
	if err != nil {
		t.Fatalf("Failed to write minimal config file: %v", err)
	}

	minimalCfg, err := Load(minimalConfigPath)
	if err != nil {
		t.Fatalf("Failed to load minimal config: %v", err)
	}

	if minimalCfg.Server.RootDir != "" {
		t.Errorf("Expected empty default root dir, got '%s'", minimalCfg.Server.RootDir)
	}

	if minimalCfg.Server.DefaultPort != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, minimalCfg.Server.DefaultPort)
	}

	if minimalCfg.Server.ShutdownTimeout != 10 {
		t.Errorf("Expected default shutdown timeout 10, got %d", minimalCfg.Server.ShutdownTimeout)
	}

	// Test case 3: Invalid configuration file
	invalidConfigPath := filepath.Join(tempDir, "invalid-config.yaml")
	invalidConfigContent := `
server:
  root_dir: "unterminated
invalid yaml format
`
	err = os.WriteFile(invalidConfigPath, []byte(invalidConfigContent), 0644)
	if err != nil {
		t.Fatalf("Failed to write invalid config file: %v", err)
	}

	_, err = Load(invalidConfigPath)
	if err == nil {
		t.Errorf("Expected error when loading invalid config, got nil")
	}

	// Test case 4: Non-existent file
	nonExistentPath := filepath.Join(tempDir, "non-existent.yaml")
	_, err = Load(nonExistentPath)
	if err == nil {
		t.Errorf("Expected error when loading non-existent file, got nil")
	}
}

func TestLoadTOMLConfig(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "static-server.toml")
	content := `
[server]
root_dir = "public"
confine_root = true

[logging]
max_backups = 7
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write TOML config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load TOML config: %v", err)
	}

	if cfg.Server.RootDir != "public" {
		t.Errorf("Expected root dir 'public', got '%s'", cfg.Server.RootDir)
	}
	if !cfg.Server.ConfineRoot {
		t.Errorf("Expected confine_root to be enabled")
	}
	if cfg.Logging.MaxBackups != 7 {
		t.Errorf("Expected max backups 7, got %d", cfg.Logging.MaxBackups)
	}
	if cfg.Server.DefaultPort != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, cfg.Server.DefaultPort)
	}

	badPath := filepath.Join(tempDir, "bad.toml")
	if err := os.WriteFile(badPath, []byte("[server\nroot_dir = "), 0644); err != nil {
		t.Fatalf("Failed to write bad TOML config file: %v", err)
	}
	if _, err := Load(badPath); err == nil {
		t.Errorf("Expected error when loading invalid TOML config, got nil")
	}
}

func TestLoadIgnoresOutOfRangePort(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  default_port: 70000\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.DefaultPort != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, cfg.Server.DefaultPort)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg == nil {
		t.Fatal("LoadOrDefault should never return nil")
	}
	if cfg.Server.DefaultPort != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, cfg.Server.DefaultPort)
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	cfg := LoadDefault()

	if cfg.Server.DefaultPort != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Server.DefaultPort)
	}

	if cfg.Server.ConfineRoot {
		t.Errorf("Expected confine_root to be disabled by default")
	}

	if cfg.Logging.LogToFile {
		t.Errorf("Expected file logging to be disabled by default")
	}

	if cfg.Logging.LogFilePath != "static-server.log" {
		t.Errorf("Expected default log file 'static-server.log', got '%s'", cfg.Logging.LogFilePath)
	}
}
