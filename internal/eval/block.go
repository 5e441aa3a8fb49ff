// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"regexp"
	"strings"

	"fortio.org/log"

	"nickandperla.net/goul/internal/scanner"
	"nickandperla.net/goul/internal/token"
	"nickandperla.net/goul/internal/value"
)

var declaration = regexp.MustCompile(`^(?:var|let)\s+(\w+)\s*=\s*(.+)`)

// execBlock runs lines at the given indentation level. A line indented less
// than level ends the block, a line indented more is skipped (nested blocks
// are not executed). A return statement ends the block and its value is the
// block's result; returned reports whether that happened.
func (e *Evaluator) execBlock(lines []string, level int) (result value.Value, returned bool, err error) {
	for _, line := range lines {
		stmt := strings.TrimSpace(line)
		kind := token.Classify(stmt)
		if kind == token.BLANK || kind == token.COMMENT {
			continue
		}

		indent := scanner.Indent(line)
		if indent < level {
			break
		}
		if indent > level {
			log.LogVf("skip nested line %q", stmt)
			continue
		}

		if kind == token.RETURN {
			v, err := e.Eval(strings.TrimPrefix(stmt, "return"))
			return v, true, err
		}
		if err := e.execStatement(kind, stmt); err != nil {
			return nil, false, err
		}
	}
	return value.Null{}, false, nil
}

// execStatement runs one non-return statement.
func (e *Evaluator) execStatement(kind token.Token, stmt string) error {
	log.LogVf("%s %s", kind, stmt)

	switch kind {
	case token.ECHO:
		v, err := e.Eval(strings.TrimPrefix(stmt, "echo "))
		if err != nil {
			return err
		}
		e.emit(v.String())

	case token.DECLARE:
		m := declaration.FindStringSubmatch(stmt)
		if m == nil {
			log.LogVf("declaration without value: %q", stmt)
			return nil
		}
		v, err := e.Eval(m[2])
		if err != nil {
			return err
		}
		e.vars.Set(m[1], v)

	case token.ASSIGN:
		name, rhs, _ := strings.Cut(stmt, "=")
		v, err := e.Eval(rhs)
		if err != nil {
			return err
		}
		e.vars.Set(strings.TrimSpace(name), v)

	case token.CALL:
		if _, err := e.Eval(stmt); err != nil {
			if errors.Is(err, ErrNoMatch) {
				log.Debugf("ignoring statement %q: %v", stmt, err)
				return nil
			}
			return err
		}

	case token.CONTROL, token.UNKNOWN:
		// Recognized but not executed.
	}
	return nil
}
