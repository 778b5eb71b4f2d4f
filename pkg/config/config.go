package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultPort is used when no usable port is given on the command line
const DefaultPort = 3000

// Config represents the application configuration
type Config struct {
	Server  ServerConfig `yaml:"server" toml:"server"`
	Logging LogConfig    `yaml:"logging" toml:"logging"`
}

// ServerConfig contains settings for the HTTP listener and file lookup
type ServerConfig struct {
	RootDir         string `yaml:"root_dir" toml:"root_dir"`                 // empty means the working directory
	DefaultPort     int    `yaml:"default_port" toml:"default_port"`         // used when the port argument is missing
	ConfineRoot     bool   `yaml:"confine_root" toml:"confine_root"`         // refuse files outside RootDir
	ShutdownTimeout int    `yaml:"shutdown_timeout" toml:"shutdown_timeout"` // in seconds
}

// LogConfig contains settings for logging
type LogConfig struct {
	LogToFile   bool   `yaml:"log_to_file" toml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path" toml:"log_file_path"`
	MaxSize     int    `yaml:"max_size" toml:"max_size"`       // maximum size in megabytes
	MaxBackups  int    `yaml:"max_backups" toml:"max_backups"` // maximum number of old log files to retain
	MaxAge      int    `yaml:"max_age" toml:"max_age"`         // maximum number of days to retain old log files
	Compress    bool   `yaml:"compress" toml:"compress"`       // compress determines if the rotated log files should be compressed
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	return &Config{
		Server: ServerConfig{
			RootDir:         "",
			DefaultPort:     DefaultPort,
			ConfineRoot:     false,
			ShutdownTimeout: 10,
		},
		Logging: LogConfig{
			LogToFile:   false,
			LogFilePath: "static-server.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
	}
}

// Default returns a configuration with default values
// This is an alias for LoadDefault
func Default() *Config {
	return LoadDefault()
}

// Load reads configuration from a file and merges it with default values.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(configPath string) (*Config, error) {
	cfg := LoadDefault()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Merge server configuration
	if fileCfg.Server.RootDir != "" {
		cfg.Server.RootDir = fileCfg.Server.RootDir
	}
	if fileCfg.Server.DefaultPort > 0 && fileCfg.Server.DefaultPort <= 65535 {
		cfg.Server.DefaultPort = fileCfg.Server.DefaultPort
	}
	if fileCfg.Server.ConfineRoot {
		cfg.Server.ConfineRoot = fileCfg.Server.ConfineRoot
	}
	if fileCfg.Server.ShutdownTimeout > 0 {
		cfg.Server.ShutdownTimeout = fileCfg.Server.ShutdownTimeout
	}

	// Merge logging configuration
	if fileCfg.Logging.LogToFile {
		cfg.Logging.LogToFile = fileCfg.Logging.LogToFile
	}
	if fileCfg.Logging.LogFilePath != "" {
		cfg.Logging.LogFilePath = fileCfg.Logging.LogFilePath
	}
	if fileCfg.Logging.MaxSize > 0 {
		cfg.Logging.MaxSize = fileCfg.Logging.MaxSize
	}
	if fileCfg.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = fileCfg.Logging.MaxBackups
	}
	if fileCfg.Logging.MaxAge > 0 {
		cfg.Logging.MaxAge = fileCfg.Logging.MaxAge
	}
	if fileCfg.Logging.Compress {
		cfg.Logging.Compress = fileCfg.Logging.Compress
	}

	return cfg, nil
}

// LoadOrDefault attempts to load configuration from a file
// If the file doesn't exist or can't be parsed, it returns default configuration
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg = LoadDefault()
	}
	return cfg
}
