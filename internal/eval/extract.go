// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"regexp"
	"strings"

	"nickandperla.net/goul/internal/scanner"
)

var fnHeader = regexp.MustCompile(`^fn\s+(\w+)\s*\((.*?)\)\s*\{`)

// Extraction is the result of splitting a source into function definitions
// and the lines that run as top-level statements.
type Extraction struct {
	Functions []*Function
	Lines     []string
	// Numbers holds the 1-based source line of each entry in Lines.
	Numbers []int
	// Unterminated lists fn headers whose braces never balanced.
	Unterminated []int
	// Malformed lists lines that start a definition but do not match
	// `fn name(params) {`. Their lines are still removed from Lines.
	Malformed []int
}

// isDefinitionStart reports whether a trimmed line opens a function definition.
func isDefinitionStart(stripped string) bool {
	return strings.HasPrefix(stripped, "fn ") && strings.Contains(stripped, "{")
}

// Extract scans source line by line for `fn name(params) { ... }` blocks.
//
// The brace depth starts at the header line's own count and follows every
// following line until it drops to zero. On that terminating line only the
// text before its last '}' belongs to the body. A header line that already
// balances its braces is the whole definition; its body is the text between
// the first '{' and the last '}'.
func Extract(source string) *Extraction {
	lines := strings.Split(source, "\n")
	ex := &Extraction{}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		stripped := strings.TrimSpace(line)
		if !isDefinitionStart(stripped) {
			ex.Lines = append(ex.Lines, line)
			ex.Numbers = append(ex.Numbers, i+1)
			continue
		}

		header := i + 1
		depth := scanner.BraceDelta(stripped)
		open := strings.IndexByte(stripped, '{')
		var body []string

		if depth <= 0 {
			if end := strings.LastIndexByte(stripped, '}'); end > open {
				body = append(body, stripped[open+1:end])
			}
		} else {
			if rest := stripped[open+1:]; strings.TrimSpace(rest) != "" {
				body = append(body, rest)
			}
			for depth > 0 && i+1 < len(lines) {
				i++
				current := lines[i]
				depth += scanner.BraceDelta(current)
				if depth > 0 {
					body = append(body, current)
					continue
				}
				if end := strings.LastIndexByte(current, '}'); end > 0 {
					body = append(body, current[:end])
				}
			}
			if depth > 0 {
				ex.Unterminated = append(ex.Unterminated, header)
			}
		}

		m := fnHeader.FindStringSubmatch(stripped)
		if m == nil {
			ex.Malformed = append(ex.Malformed, header)
			continue
		}
		ex.Functions = append(ex.Functions, &Function{
			Name:   m[1],
			Params: parseParams(m[2]),
			Body:   strings.TrimSpace(strings.Join(body, "\n")),
			Line:   header,
		})
	}

	return ex
}

// parseParams splits a parameter list on commas, dropping empty names.
func parseParams(s string) []string {
	var params []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return params
}
