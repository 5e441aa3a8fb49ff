// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import "strings"

// Function is a user-defined function. The body is kept as raw text and
// re-read on every call.
type Function struct {
	Name   string
	Params []string
	Body   string
	Line   int // 1-based line of the fn header in its source
}

// Lines returns the body lines with one level of indentation removed:
// four leading spaces if present, else two, else none.
func (f *Function) Lines() []string {
	lines := strings.Split(f.Body, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "    "):
			lines[i] = line[4:]
		case strings.HasPrefix(line, "  "):
			lines[i] = line[2:]
		}
	}
	return lines
}

// Registry holds the user functions of a run. Builtins are resolved after
// user functions, so a script may shadow any builtin.
type Registry struct {
	user map[string]*Function
}

// NewRegistry creates a registry seeded with the given functions.
func NewRegistry(seed ...*Function) *Registry {
	r := &Registry{user: make(map[string]*Function)}
	for _, fn := range seed {
		r.Define(fn)
	}
	return r
}

// Define adds or replaces a user function.
func (r *Registry) Define(fn *Function) {
	r.user[fn.Name] = fn
}

// Lookup resolves name to a user function or, failing that, a builtin.
func (r *Registry) Lookup(name string) (*Function, BuiltinFunc, bool) {
	if fn, ok := r.user[name]; ok {
		return fn, nil, true
	}
	if b := getBuiltin(name); b != nil {
		return nil, b, true
	}
	return nil, nil, false
}
