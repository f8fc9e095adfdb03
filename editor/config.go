package editor

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the editor's environment variables.
const envPrefix = "EDITOR_"

// Config holds the editor server settings. Values come from defaults
// overridden by EDITOR_* environment variables; the bare ROOT_PATH
// variable is honored too for compatibility with older deployments.
type Config struct {
	// RootPath is the directory the API is confined to. Created on
	// startup when missing.
	RootPath string `koanf:"root_path" validate:"required"`

	// Addr is the listen address, e.g. ":8000".
	Addr string `koanf:"addr" validate:"required"`

	// AllowOrigins is a comma-separated list of origins allowed to call
	// the API with credentials.
	AllowOrigins string `koanf:"allow_origins"`
}

// DefaultConfig returns the settings used when nothing is configured:
// the conventional template root and the dev frontend origins.
func DefaultConfig() Config {
	return Config{
		RootPath:     "./template",
		Addr:         ":8000",
		AllowOrigins: "http://localhost:3000,http://127.0.0.1:3000",
	}
}

// LoadConfig builds a [Config] from defaults and the process environment.
func LoadConfig() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	// Older deployments configure the root via a bare ROOT_PATH.
	if v, ok := os.LookupEnv("ROOT_PATH"); ok {
		if err := k.Set("root_path", v); err != nil {
			return Config{}, fmt.Errorf("set root_path: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Origins splits AllowOrigins into the individual origin values.
func (c Config) Origins() []string {
	var origins []string

	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}
