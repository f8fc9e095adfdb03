// Package stringtest provides helpers for constructing multi-line string
// expectations in tests.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//		"line3",
//	) // -> "line1\nline2\nline3"
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}

// File joins multiple strings with LF line endings and appends a trailing
// newline, matching the canonical form of generated files.
//
// Example:
//
//	want := stringtest.File(
//		"line1",
//		"line2",
//	) // -> "line1\nline2\n"
func File(ss ...string) string {
	return JoinLF(ss...) + "\n"
}
