// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token classifies goul statement lines.
package token

import "strings"

// Token represents the kind of a statement line.
type Token int

const (
	BLANK Token = iota
	COMMENT

	// Statements
	RETURN  // return [expr]
	ECHO    // echo expr
	DECLARE // var name = expr / let name = expr
	ASSIGN  // name = expr
	CALL    // any line with ( and ) evaluated for its side effects
	CONTROL // if / for / while / class / fn / } recognized but not executed
	UNKNOWN
)

// CommentMarker starts a line comment.
const CommentMarker = "//"

// controlPrefixes are recognized keywords whose lines are accepted but not run.
var controlPrefixes = []string{"if ", "for ", "while ", "class ", "fn "}

// comparisons keep a line containing '=' from being read as an assignment.
var comparisons = []string{"==", "!=", "<=", ">="}

// Classify returns the token for a whitespace-trimmed statement line.
func Classify(stmt string) Token {
	switch {
	case stmt == "":
		return BLANK
	case strings.HasPrefix(stmt, CommentMarker):
		return COMMENT
	case IsReturn(stmt):
		return RETURN
	case stmt == "}" || hasAnyPrefix(stmt, controlPrefixes):
		return CONTROL
	case strings.HasPrefix(stmt, "echo "):
		return ECHO
	case strings.HasPrefix(stmt, "var "), strings.HasPrefix(stmt, "let "):
		return DECLARE
	case strings.Contains(stmt, "=") && !containsAny(stmt, comparisons):
		return ASSIGN
	case strings.Contains(stmt, "(") && strings.Contains(stmt, ")"):
		return CALL
	}
	return UNKNOWN
}

// IsReturn reports whether stmt is a return statement: the keyword alone or
// followed by a space, ';' or '('. This is stricter than a plain prefix
// match, which would also end the block at "returned = 1".
func IsReturn(stmt string) bool {
	rest, ok := strings.CutPrefix(stmt, "return")
	if !ok {
		return false
	}
	return rest == "" || strings.IndexAny(rest[:1], " \t;(") == 0
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// String returns the token name.
func (t Token) String() string {
	switch t {
	case BLANK:
		return "BLANK"
	case COMMENT:
		return "COMMENT"
	case RETURN:
		return "RETURN"
	case ECHO:
		return "ECHO"
	case DECLARE:
		return "DECLARE"
	case ASSIGN:
		return "ASSIGN"
	case CALL:
		return "CALL"
	case CONTROL:
		return "CONTROL"
	default:
		return "UNKNOWN"
	}
}
