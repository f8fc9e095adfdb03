package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// scalarText returns the single-line YAML form of v. ok is false when v is
// a string that needs a multi-line block.
func scalarText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "null", true
	case bool:
		return strconv.FormatBool(val), true
	case string:
		if strings.Contains(val, "\n") {
			return "", false
		}

		return Quote(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float64:
		return formatFloat(val), true
	}

	return fmt.Sprint(v), true
}

// formatFloat keeps whole floats recognizable as floats, matching the
// historical output ("5" renders as "5.0").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

// blockIndicator picks the literal block header preserving the string's
// trailing newline shape.
func blockIndicator(s string) string {
	switch {
	case strings.HasSuffix(s, "\n\n"):
		return "|+"
	case strings.HasSuffix(s, "\n"):
		return "|"
	default:
		return "|-"
	}
}

// appendBlockScalar emits the content lines of a literal block at indent.
func appendBlockScalar(lines *[]string, s string, indent int) {
	prefix := strings.Repeat("  ", indent)

	for _, line := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		if line == "" {
			*lines = append(*lines, "")
			continue
		}

		*lines = append(*lines, prefix+line)
	}
}

// appendList emits items as a block sequence at indent.
func appendList(lines *[]string, items []any, indent int) {
	prefix := strings.Repeat("  ", indent)

	for _, item := range items {
		switch val := item.(type) {
		case yaml.MapSlice:
			if len(val) == 0 {
				*lines = append(*lines, prefix+"- {}")
				continue
			}

			// The first pair shares the dash line.
			var entry []string

			appendMap(&entry, val, indent+1)
			entry[0] = prefix + "- " + strings.TrimLeft(entry[0], " ")
			*lines = append(*lines, entry...)

		case []any:
			if len(val) == 0 {
				*lines = append(*lines, prefix+"- []")
				continue
			}

			*lines = append(*lines, prefix+"-")
			appendList(lines, val, indent+1)

		default:
			if s, ok := scalarText(item); ok {
				*lines = append(*lines, prefix+"- "+s)
				continue
			}

			str := item.(string)
			*lines = append(*lines, prefix+"- "+blockIndicator(str))
			appendBlockScalar(lines, str, indent+1)
		}
	}
}

// appendMap emits m as a block mapping at indent, preserving insertion
// order.
func appendMap(lines *[]string, m yaml.MapSlice, indent int) {
	prefix := strings.Repeat("  ", indent)

	for _, item := range m {
		appendEntry(lines, prefix, Quote(mapKey(item.Key)), item.Value, indent)
	}
}

// appendEntry emits one "key: value" pair, breaking containers and
// multi-line strings onto following lines.
func appendEntry(lines *[]string, prefix, key string, v any, indent int) {
	switch val := v.(type) {
	case yaml.MapSlice:
		if len(val) == 0 {
			*lines = append(*lines, prefix+key+": {}")
			return
		}

		*lines = append(*lines, prefix+key+":")
		appendMap(lines, val, indent+1)

	case []any:
		if len(val) == 0 {
			*lines = append(*lines, prefix+key+": []")
			return
		}

		*lines = append(*lines, prefix+key+":")
		appendList(lines, val, indent+1)

	default:
		if s, ok := scalarText(v); ok {
			*lines = append(*lines, prefix+key+": "+s)
			return
		}

		str := v.(string)
		*lines = append(*lines, prefix+key+": "+blockIndicator(str))
		appendBlockScalar(lines, str, indent+1)
	}
}

func mapKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	return fmt.Sprint(k)
}
