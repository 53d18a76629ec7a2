package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/exa-labs/exa-mcp-server-go/internal/errors"
)

const defaultPort = 3000

// Config holds the fully resolved server configuration. Precedence is
// flags, then environment, then config file, then defaults.
type Config struct {
	// APIKey authenticates requests to the Exa API. Required.
	APIKey string

	// APIToken is the bearer token clients must present on the SSE
	// transport. Empty means every SSE connection is rejected.
	APIToken string

	// SSE selects the HTTP SSE transport instead of stdio.
	SSE bool

	// Port is the HTTP listen port for the SSE transport.
	Port int

	// BaseURL overrides the Exa API endpoint. Empty means the default.
	BaseURL string

	// Timeout bounds each Exa API request. Zero means no timeout.
	Timeout time.Duration

	// Tools restricts the exposed tool set to the named tools. Empty
	// means all registered tools are exposed.
	Tools []string
}

// fileConfig is the YAML config file shape.
type fileConfig struct {
	Port    int      `yaml:"port"`
	BaseURL string   `yaml:"base_url"`
	Timeout string   `yaml:"timeout"`
	Tools   []string `yaml:"tools"`
}

// Load resolves configuration from args, the environment, and an optional
// YAML config file. A .env file in the working directory is loaded first
// when present; a missing one is not an error.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("exa-mcp-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sse        = fs.Bool("sse", false, "serve over HTTP SSE instead of stdio")
		port       = fs.Int("port", 0, "HTTP listen port for the SSE transport")
		configPath = fs.String("config", "", "path to a YAML config file")
		toolsFlag  = fs.String("tools", "", "comma-separated list of tools to expose")
	)

	if err := fs.Parse(args); err != nil {
		return nil, &errors.ConfigError{Name: "flags", Reason: err.Error()}
	}

	cfg := &Config{
		APIKey:   os.Getenv("EXA_API_KEY"),
		APIToken: os.Getenv("API_TOKEN"),
		SSE:      *sse,
		Port:     defaultPort,
	}

	var file fileConfig

	if *configPath != "" {
		if err := loadFile(*configPath, &file); err != nil {
			return nil, err
		}
	}

	if file.Port != 0 {
		cfg.Port = file.Port
	}

	cfg.BaseURL = file.BaseURL
	cfg.Tools = file.Tools

	if file.Timeout != "" {
		d, err := time.ParseDuration(file.Timeout)
		if err != nil {
			return nil, &errors.ConfigError{Name: "timeout", Reason: fmt.Sprintf("invalid duration %q", file.Timeout)}
		}

		cfg.Timeout = d
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if *port != 0 {
		cfg.Port = *port
	}

	if *toolsFlag != "" {
		cfg.Tools = splitList(*toolsFlag)
	}

	if cfg.APIKey == "" {
		return nil, &errors.ConfigError{Name: "EXA_API_KEY", Reason: "environment variable is not set"}
	}

	return cfg, nil
}

func loadFile(path string, file *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &errors.ConfigError{Name: "config", Reason: err.Error()}
	}

	if err := yaml.Unmarshal(data, file); err != nil {
		return &errors.ConfigError{Name: "config", Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}

	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			return &errors.ConfigError{Name: "PORT", Reason: fmt.Sprintf("invalid port %q", v)}
		}

		cfg.Port = p
	}

	if v := os.Getenv("EXA_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("EXA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &errors.ConfigError{Name: "EXA_TIMEOUT", Reason: fmt.Sprintf("invalid duration %q", v)}
		}

		cfg.Timeout = d
	}

	return nil
}

func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
