// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"
)

// ErrNoMatch marks an expression that no evaluation rule recognized.
var ErrNoMatch = errors.New("no evaluation rule matched")

// ErrRecursionDepth is returned when user function calls nest deeper than the
// configured limit.
var ErrRecursionDepth = errors.New("maximum recursion depth exceeded")

// LanguageError is an error raised by the language itself: an expression
// that cannot be evaluated or a call to an unknown function. It renders as
// "Error: <message>". Every other error renders as "Error inesperado: <message>".
type LanguageError struct {
	Msg   string
	cause error
}

func (e *LanguageError) Error() string { return e.Msg }

func (e *LanguageError) Unwrap() error { return e.cause }

func languageErrorf(format string, args ...any) *LanguageError {
	return &LanguageError{Msg: fmt.Sprintf(format, args...)}
}

// noMatch reports that src could not be evaluated by any rule.
func noMatch(src string) error {
	return &LanguageError{Msg: "cannot evaluate expression: " + src, cause: ErrNoMatch}
}

// undefinedFunction reports a call to a name that is neither a user function
// nor a builtin.
func undefinedFunction(name string) error {
	return languageErrorf("function '%s' is not defined", name)
}

// FormatError renders err as the single output line that terminates a run.
func FormatError(err error) string {
	var le *LanguageError
	if errors.As(err, &le) {
		return "Error: " + le.Msg
	}
	return "Error inesperado: " + err.Error()
}
