package schema

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

// The two placeholder syntaxes: {VAR} in paths, ${VAR} in content and
// string default values.
var (
	pathPlaceholderPattern    = regexp.MustCompile(`\{[A-Z0-9_]+\}`)
	contentPlaceholderPattern = regexp.MustCompile(`\$\{[A-Z0-9_]+\}`)
)

// SubstitutePath expands {VAR} placeholders in a path template. Placeholders
// left unresolved are warned about and kept verbatim; substitution never
// fails a run.
func SubstitutePath(s string, env map[string]string) string {
	out := s
	for k, v := range env {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}

	for _, m := range pathPlaceholderPattern.FindAllString(out, -1) {
		slog.Warn("unresolved variable in path",
			slog.String("placeholder", m),
			slog.String("path", out))
	}

	return out
}

// SubstituteContent expands ${VAR} placeholders in file content or a string
// default value. Placeholders left unresolved are warned about and kept
// verbatim.
func SubstituteContent(s string, env map[string]string) string {
	out := s
	for k, v := range env {
		out = strings.ReplaceAll(out, "${"+k+"}", v)
	}

	for _, m := range contentPlaceholderPattern.FindAllString(out, -1) {
		slog.Warn("unresolved variable",
			slog.String("placeholder", m))
	}

	return out
}

// SubstituteDefaults expands ${VAR} placeholders inside default values in
// place, recursing through nested containers. Keys, descriptions and regex
// placeholders are never rewritten.
func SubstituteDefaults(nodes []*Node, env map[string]string) {
	for _, n := range nodes {
		if n.DefaultValue != nil {
			n.DefaultValue = substituteValue(n.DefaultValue, env)
		}

		SubstituteDefaults(n.Children, env)
	}
}

func substituteValue(v any, env map[string]string) any {
	switch val := v.(type) {
	case string:
		return SubstituteContent(val, env)

	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = substituteValue(item, env)
		}

		return out

	case yaml.MapSlice:
		out := make(yaml.MapSlice, len(val))
		for i, item := range val {
			out[i] = yaml.MapItem{Key: item.Key, Value: substituteValue(item.Value, env)}
		}

		return out
	}

	return v
}
