// Package chars holds byte-level helpers for pattern source lines.
package chars

import (
	"strings"
	"unicode/utf8"
)

// TabSize is the tab stop used when expanding tabs in pattern source lines.
const TabSize = 4

// ReplaceTabs expands every tab in a single line to the next tab stop.
// The line must not contain line breaks.
func ReplaceTabs(line string) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}

	var result strings.Builder
	result.Grow(len(line))
	offset := 0
	for _, c := range line {
		if c == '\t' {
			spaceCount := TabSize - offset%TabSize
			result.WriteString(strings.Repeat(" ", spaceCount))
			offset += spaceCount
		} else {
			result.WriteRune(c)
			offset++
		}
	}
	return result.String()
}

// IsValidUTF8 returns the byte offset of the first invalid UTF-8 sequence,
// or -1 if the text is well-formed.
func IsValidUTF8(text []byte) int {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRune(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// IsValidText returns the byte offset of the first invalid position, or -1.
// A text is valid when it is well-formed UTF-8 and contains no control
// characters except tab, line feed, and carriage return.
func IsValidText(text []byte) int {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRune(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		if r < ' ' && r != '\t' && r != '\n' && r != '\r' {
			return i
		}
		i += size
	}
	return -1
}
