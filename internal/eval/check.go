// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"nickandperla.net/goul/internal/scanner"
	"nickandperla.net/goul/internal/token"
)

// Severity grades a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a problem found in a script without running it.
type Diagnostic struct {
	Line     int
	Severity Severity
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Severity, d.Msg)
}

// Check reports structural problems in source: definitions whose braces
// never close, malformed fn headers, duplicate definitions, and top-level
// lines the block executor will skip or accept without running.
func Check(source string) []Diagnostic {
	ex := Extract(source)
	var diags []Diagnostic

	for _, line := range ex.Unterminated {
		diags = append(diags, Diagnostic{line, SeverityError, "function body is never closed"})
	}
	for _, line := range ex.Malformed {
		diags = append(diags, Diagnostic{line, SeverityError, "malformed function header, expected fn name(params) {"})
	}

	seen := make(map[string]int)
	for _, fn := range ex.Functions {
		if first, ok := seen[fn.Name]; ok {
			diags = append(diags, Diagnostic{fn.Line, SeverityWarning,
				fmt.Sprintf("function %q redefines the one on line %d", fn.Name, first)})
			continue
		}
		seen[fn.Name] = fn.Line
		if slices.Contains(Builtins(), fn.Name) {
			diags = append(diags, Diagnostic{fn.Line, SeverityWarning,
				fmt.Sprintf("function %q shadows the builtin of the same name", fn.Name)})
		}
	}

	for i, line := range ex.Lines {
		stmt := strings.TrimSpace(line)
		kind := token.Classify(stmt)
		switch {
		case kind == token.BLANK || kind == token.COMMENT:
		case scanner.Indent(line) > 0:
			diags = append(diags, Diagnostic{ex.Numbers[i], SeverityWarning, "indented line at top level is skipped"})
		case kind == token.CONTROL && stmt != "}":
			keyword, _, _ := strings.Cut(stmt, " ")
			diags = append(diags, Diagnostic{ex.Numbers[i], SeverityWarning,
				fmt.Sprintf("%q is recognized but not executed", keyword)})
		case kind == token.UNKNOWN:
			diags = append(diags, Diagnostic{ex.Numbers[i], SeverityWarning, "statement has no effect"})
		}
	}

	sort.SliceStable(diags, func(a, b int) bool { return diags[a].Line < diags[b].Line })
	return diags
}
