// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package goul

import (
	"io"
	"os"

	"nickandperla.net/goul/internal/eval"
	"nickandperla.net/goul/internal/stdlib"
)

// DefaultPrelude contains the standard library functions that are
// registered before every script unless WithNoStdlib is given.
var DefaultPrelude = stdlib.Prelude

// Runtime runs goul scripts. A Runtime holds only configuration; every run
// gets a fresh interpreter, so one Runtime may be shared by goroutines as
// long as its output writer is safe for concurrent use.
type Runtime struct {
	prelude      string
	noStdlib     bool
	maxDepth     int
	placeholder  string
	outputWriter func(line string) error
}

// New creates a new goul runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		maxDepth:    eval.DefaultMaxCallDepth,
		placeholder: eval.DefaultInputPlaceholder,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes source on a blank slate and returns its output, lines joined
// by "\n". A failing script ends with an "Error: ..." or
// "Error inesperado: ..." line.
func Run(source string) string {
	return New().Run(source)
}

// Run executes source and returns its output.
func (r *Runtime) Run(source string) string {
	return r.evaluator().Run(source)
}

// Exec executes source and returns the output lines and the error that
// stopped it, if any. FormatError renders that error as Run would.
func (r *Runtime) Exec(source string) ([]string, error) {
	return r.evaluator().Exec(source)
}

// RunReader reads a whole script from reader and runs it.
func (r *Runtime) RunReader(reader io.Reader) (string, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return r.Run(string(src)), nil
}

// RunFile runs the script at path.
func (r *Runtime) RunFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return r.RunReader(f)
}

// evaluator builds the interpreter for one run.
func (r *Runtime) evaluator() *eval.Evaluator {
	opts := []eval.Option{
		eval.WithMaxCallDepth(r.maxDepth),
		eval.WithInputPlaceholder(r.placeholder),
	}
	if r.outputWriter != nil {
		opts = append(opts, eval.WithOutputWriter(r.outputWriter))
	}
	e := eval.New(opts...)

	if !r.noStdlib {
		prelude := r.prelude
		if prelude == "" {
			prelude = DefaultPrelude
		}
		e.Load(prelude)
	}
	return e
}

// FormatError renders an error returned by Exec as the final output line.
func FormatError(err error) string {
	return eval.FormatError(err)
}

// Check reports structural problems in source without running it.
func Check(source string) []Diagnostic {
	return eval.Check(source)
}

// Diagnostic is a problem reported by Check.
type Diagnostic = eval.Diagnostic

// LanguageError is the error kind rendered as "Error: ...".
type LanguageError = eval.LanguageError

// Diagnostic severities.
const (
	SeverityWarning = eval.SeverityWarning
	SeverityError   = eval.SeverityError
)
