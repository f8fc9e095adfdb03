package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

// Defaults applied when the orchestrator config omits a field.
const (
	DefaultScenarioEnvKey    = "SCENARIO_TYPE"
	DefaultOverrideHintStyle = "<=== [Override]"
	DefaultTopLevelSpacing   = 2

	// DefaultScenarioPriority is forced onto default-source scenarios so
	// they always apply first and every other scenario overrides them.
	DefaultScenarioPriority = 9999
)

// Trigger sources and condition logic values.
const (
	TriggerSourceDefault = "default"
	TriggerSourceUser    = "user"
	TriggerSourceEnv     = "env"

	TriggerLogicAnd = "and"
	TriggerLogicOr  = "or"
)

var (
	// ErrInvalidConfig indicates an orchestrator config that failed to
	// parse or validate.
	ErrInvalidConfig = errors.New("invalid scenario config")
	// ErrMissingEnvVars indicates required environment variables absent
	// from the process environment. The capitalized message is part of the
	// CLI output contract.
	ErrMissingEnvVars = errors.New("Missing required environment variables")
)

// Config is the orchestrator configuration. The historical JSON key
// spellings ("senario_env_key", "senarios") are part of the file format.
type Config struct {
	ScenarioEnvKey    string     `json:"senario_env_key"`
	OverrideHintStyle string     `json:"override_hint_style"`
	TopLevelSpacing   int        `json:"top_level_spacing" validate:"min=0"`
	DefaultEnvVars    []EnvVar   `json:"default_env_vars" validate:"dive"`
	Scenarios         []Scenario `json:"senarios" validate:"required,min=1,dive"`
}

// Scenario names one overlay directory and the trigger that activates it.
type Scenario struct {
	Value           string   `json:"value" validate:"required"`
	Path            string   `json:"path" validate:"required"`
	Priority        int      `json:"priority"`
	RequiredEnvVars []EnvVar `json:"required_env_vars" validate:"dive"`
	Trigger         Trigger  `json:"trigger"`
}

// Trigger decides whether a scenario activates for a given environment.
type Trigger struct {
	Source     string             `json:"source" validate:"required,oneof=default user env"`
	Logic      string             `json:"logic" validate:"omitempty,oneof=and or"`
	Conditions []TriggerCondition `json:"conditions" validate:"dive"`
}

// TriggerCondition matches one environment variable against an unanchored
// regex. An unset variable is matched as the empty string.
type TriggerCondition struct {
	Key   string `json:"key" validate:"required"`
	Regex string `json:"regex" validate:"required"`
}

// EnvVar names a required environment variable. The JSON form is either a
// bare string or an object with key and description.
type EnvVar struct {
	Key         string `json:"key" validate:"required"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts both the bare-string and object forms.
func (v *EnvVar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &v.Key)
	}

	type envVarObject EnvVar

	var obj envVarObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*v = EnvVar(obj)

	return nil
}

var configValidator = validator.New()

// ParseConfig decodes and validates an orchestrator config document.
// Omitted fields take their defaults and the override hint style is
// normalized into a comment marker.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{
		ScenarioEnvKey:    DefaultScenarioEnvKey,
		OverrideHintStyle: DefaultOverrideHintStyle,
		TopLevelSpacing:   DefaultTopLevelSpacing,
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg.OverrideHintStyle = normalizeHintStyle(cfg.OverrideHintStyle)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfig reads and parses the orchestrator config at path.
func LoadConfig(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks structural constraints plus the trigger rules: default
// and user triggers must not define conditions, env triggers need at least
// one.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for i := range c.Scenarios {
		s := &c.Scenarios[i]

		switch s.Trigger.Source {
		case TriggerSourceDefault, TriggerSourceUser:
			if len(s.Trigger.Conditions) > 0 {
				return fmt.Errorf("%w: scenario %q: trigger source %q must not define conditions",
					ErrInvalidConfig, s.Value, s.Trigger.Source)
			}

		case TriggerSourceEnv:
			if len(s.Trigger.Conditions) == 0 {
				return fmt.Errorf("%w: scenario %q: trigger source %q requires at least one condition",
					ErrInvalidConfig, s.Value, TriggerSourceEnv)
			}
		}
	}

	return nil
}

// normalizeHintStyle turns the configured style into a comment marker:
// styles not already starting with a comment character get "# " prefixed.
func normalizeHintStyle(style string) string {
	if strings.HasPrefix(style, "#") || strings.HasPrefix(style, ";") {
		return style
	}

	return "# " + style
}
