package render

import (
	"regexp"
	"strings"
)

var (
	boolWordPattern   = regexp.MustCompile(`^(?i:true|false|yes|no|on|off)$`)
	numberLikePattern = regexp.MustCompile(`^[\d.]+$`)
)

// Characters that force quoting when they appear anywhere in a string,
// and characters that force quoting only in the leading position.
const (
	quoteAnywhereChars = ":#{}[],/|!"
	quoteLeadingChars  = "\"'*&!?-<>%@`"
)

// Quote formats s for YAML and INI output with minimal quoting: strings no
// parser could misread stay bare, everything else is wrapped in double
// quotes with backslashes and inner quotes escaped. Strings that already
// arrive wrapped in double quotes pass through untouched.
func Quote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s
	}

	if !needsQuoting(s) {
		return s
	}

	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)

	return `"` + escaped + `"`
}

func needsQuoting(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}

	if boolWordPattern.MatchString(s) || numberLikePattern.MatchString(s) {
		return true
	}

	if strings.ContainsAny(s, quoteAnywhereChars) || strings.Contains(s, "${") {
		return true
	}

	if s != strings.TrimSpace(s) {
		return true
	}

	return strings.ContainsAny(s[:1], quoteLeadingChars)
}
