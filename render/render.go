package render

import (
	"strings"
)

// DefaultHintStyle marks overridden lines when the orchestrator config
// does not configure a style of its own.
const DefaultHintStyle = "# <=== [Override]"

// Options adjust rendering shared by the YAML and INI emitters.
type Options struct {
	// OverrideHintStyle is appended (after a space) to the key line of
	// every node whose override hint flag is set. Styles that do not
	// already read as a comment get "# " prefixed.
	OverrideHintStyle string

	// TopLevelSpacing is the number of blank lines between top-level
	// YAML blocks.
	TopLevelSpacing int
}

func (o Options) hintMarker() string {
	style := o.OverrideHintStyle
	if style == "" {
		return DefaultHintStyle
	}

	if strings.HasPrefix(style, "#") || strings.HasPrefix(style, ";") {
		return style
	}

	return "# " + style
}

// Error reports a schema tree the renderer refuses to emit.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

// Text joins rendered lines into the canonical file form: interior blank
// lines survive and the file ends with exactly one newline.
func Text(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

const bannerWidth = 42

// descriptionLines renders a node description. Descriptions starting with
// "#" become a framed banner; anything else becomes plain comment lines.
func descriptionLines(desc, prefix string) []string {
	if desc == "" {
		return nil
	}

	if strings.HasPrefix(desc, "#") {
		return bannerLines(strings.TrimSpace(strings.TrimPrefix(desc, "#")), prefix)
	}

	var lines []string

	for _, line := range strings.Split(desc, "\n") {
		lines = append(lines, commentLine(prefix, line))
	}

	return lines
}

// bannerLines frames text between two comment rails.
func bannerLines(text, prefix string) []string {
	rail := prefix + "# " + strings.Repeat("=", bannerWidth)
	lines := []string{rail}

	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, commentLine(prefix, line))
	}

	return append(lines, rail)
}

func commentLine(prefix, text string) string {
	if text == "" {
		return prefix + "#"
	}

	return prefix + "# " + text
}

// commentOut prefixes every data line with "# " at its original indent.
// Blank lines and lines that are already comments stay as they are, so
// descriptions and banners survive untouched.
func commentOut(lines []string) {
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := line[:len(line)-len(trimmed)]
		lines[i] = indent + "# " + trimmed
	}
}
