package scenario

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Activate returns the scenarios triggered by env, ordered for merging:
// priority numbers descending, so the default (9999) applies first and the
// smallest number lands last and wins conflicts. Scenarios sharing a
// priority keep their config order.
func Activate(cfg *Config, env Env) ([]Scenario, error) {
	var active []Scenario

	for _, s := range cfg.Scenarios {
		on, err := triggered(&s, env, cfg.ScenarioEnvKey)
		if err != nil {
			return nil, err
		}

		if !on {
			continue
		}

		if s.Trigger.Source == TriggerSourceDefault {
			s.Priority = DefaultScenarioPriority
		}

		active = append(active, s)
	}

	slices.SortStableFunc(active, func(a, b Scenario) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	return active, nil
}

func triggered(s *Scenario, env Env, envKey string) (bool, error) {
	switch s.Trigger.Source {
	case TriggerSourceDefault:
		return true, nil
	case TriggerSourceUser:
		return env[envKey] == s.Value, nil
	case TriggerSourceEnv:
		return evalConditions(s, env)
	}

	return false, nil
}

// evalConditions combines the per-condition regex matches with the trigger
// logic. Logic defaults to "and" when unset.
func evalConditions(s *Scenario, env Env) (bool, error) {
	anyOf := s.Trigger.Logic == TriggerLogicOr

	for _, cond := range s.Trigger.Conditions {
		re, err := regexp.Compile(cond.Regex)
		if err != nil {
			return false, fmt.Errorf("%w: scenario %q: condition %q: %w",
				ErrInvalidConfig, s.Value, cond.Key, err)
		}

		matched := re.MatchString(env[cond.Key])

		if anyOf && matched {
			return true, nil
		}

		if !anyOf && !matched {
			return false, nil
		}
	}

	return !anyOf, nil
}

// RequiredEnvVars unions the config-wide defaults with each active
// scenario's requirements, keeping first-appearance order.
func RequiredEnvVars(cfg *Config, active []Scenario) []EnvVar {
	seen := make(map[string]struct{})

	var vars []EnvVar

	add := func(evs []EnvVar) {
		for _, ev := range evs {
			if _, ok := seen[ev.Key]; ok || ev.Key == "" {
				continue
			}

			seen[ev.Key] = struct{}{}
			vars = append(vars, ev)
		}
	}

	add(cfg.DefaultEnvVars)

	for i := range active {
		add(active[i].RequiredEnvVars)
	}

	return vars
}

// ValidateEnv fails when any variable required by the active scenarios is
// absent from env. A variable set to the empty string counts as present.
func ValidateEnv(cfg *Config, active []Scenario, env Env) error {
	var missing []string

	for _, ev := range RequiredEnvVars(cfg, active) {
		if _, ok := env[ev.Key]; !ok {
			missing = append(missing, ev.Key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnvVars, strings.Join(missing, ", "))
	}

	return nil
}
