// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the quote- and bracket-aware text scanning used by
// the goul evaluator and function extractor.
package scanner

import (
	"strings"
	"unicode"
)

// state tracks whether the scan position is inside a quoted string or a
// bracketed region. Inside a string only the opening quote character ends it;
// the other quote character is literal.
type state struct {
	quote rune
	depth int
}

// advance consumes r and reports whether r sits at top level, outside any
// string and any [...], {...} or (...) region.
func (st *state) advance(r rune) bool {
	if st.quote != 0 {
		if r == st.quote {
			st.quote = 0
		}
		return false
	}
	switch r {
	case '"', '\'':
		st.quote = r
		return false
	case '[', '{', '(':
		st.depth++
		return false
	case ']', '}', ')':
		if st.depth > 0 {
			st.depth--
		}
		return false
	}
	return st.depth == 0
}

// Split divides s at every top-level occurrence of sep. Parts are trimmed.
// Empty parts between separators are kept, an empty trailing part is
// dropped, and blank input yields no parts.
func Split(s string, sep rune) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var (
		parts []string
		st    state
		start int
	)
	for i, r := range s {
		top := st.advance(r)
		if r == sep && top {
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + len(string(r))
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// SplitArgs splits a comma-separated argument or element list.
func SplitArgs(s string) []string {
	return Split(s, ',')
}

// IndexTopLevel returns the byte index of the first top-level sep in s, or -1.
func IndexTopLevel(s string, sep rune) int {
	var st state
	for i, r := range s {
		top := st.advance(r)
		if r == sep && top {
			return i
		}
	}
	return -1
}

// MatchingClose returns the byte index of the bracket that closes the one
// opened at s[open], or -1 if it is never closed.
func MatchingClose(s string, open int) int {
	var st state
	for i, r := range s[open:] {
		st.advance(r)
		if st.depth == 0 && st.quote == 0 {
			return open + i
		}
	}
	return -1
}

// HasQuote reports whether s contains a single or double quote anywhere.
func HasQuote(s string) bool {
	return strings.ContainsAny(s, `"'`)
}

// Indent returns the width of the leading whitespace of line. Tabs count as
// one column.
func Indent(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

// BraceDelta returns the number of '{' minus the number of '}' in line.
func BraceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

// isIdentChar returns true if the rune is valid in an identifier (letter, digit, underscore).
func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// IsIdentifier reports whether s is a valid name: a letter or underscore
// followed by letters, digits and underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentChar(r) || (i == 0 && unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
