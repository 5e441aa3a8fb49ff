// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/log"

	"nickandperla.net/goul/internal/scanner"
	"nickandperla.net/goul/internal/value"
)

// DefaultMaxCallDepth bounds nested user function calls.
const DefaultMaxCallDepth = 200

// DefaultInputPlaceholder is what input() returns; there is no real input.
const DefaultInputPlaceholder = "user_input"

// OutputWriter receives each output line as it is appended.
type OutputWriter func(line string) error

// Evaluator interprets goul scripts. Each Run starts from a blank slate:
// fresh variables, a registry holding only the loaded prelude functions, and
// empty output. An Evaluator is not safe for concurrent use; give every
// goroutine its own.
type Evaluator struct {
	vars         *Namespace
	registry     *Registry
	prelude      []*Function
	output       []string
	outputWriter OutputWriter
	placeholder  string
	maxDepth     int
	depth        int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutputWriter mirrors every output line to w as it is produced.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// WithMaxCallDepth sets the maximum nesting of user function calls.
func WithMaxCallDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithInputPlaceholder sets the text returned by input().
func WithInputPlaceholder(s string) Option {
	return func(e *Evaluator) { e.placeholder = s }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		vars:        NewNamespace(),
		registry:    NewRegistry(),
		placeholder: DefaultInputPlaceholder,
		maxDepth:    DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load registers the function definitions in source without running any of
// its top-level lines. Loaded functions survive across runs of this
// Evaluator and are shadowed by script definitions of the same name.
func (e *Evaluator) Load(source string) {
	ex := Extract(source)
	e.prelude = append(e.prelude, ex.Functions...)
	for _, fn := range ex.Functions {
		e.registry.Define(fn)
	}
	log.LogVf("loaded %d prelude functions", len(ex.Functions))
}

// Run executes source and returns everything it wrote, lines joined by "\n".
// The first error ends the run and is appended as a final "Error: ..." or
// "Error inesperado: ..." line.
func (e *Evaluator) Run(source string) string {
	lines, err := e.Exec(source)
	if err != nil {
		lines = append(lines, FormatError(err))
	}
	return strings.Join(lines, "\n")
}

// Exec executes source and returns the output lines and the error that ended
// the run, if any. The error line is not part of the returned lines.
func (e *Evaluator) Exec(source string) (lines []string, err error) {
	e.reset()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
		lines = e.output
	}()

	ex := Extract(strings.TrimSpace(source))
	for _, fn := range ex.Functions {
		e.registry.Define(fn)
	}
	_, _, err = e.execBlock(ex.Lines, 0)
	return e.output, err
}

func (e *Evaluator) reset() {
	e.vars = NewNamespace()
	e.registry = NewRegistry(e.prelude...)
	e.output = nil
	e.depth = 0
}

// emit appends a line to the output.
func (e *Evaluator) emit(line string) {
	e.output = append(e.output, line)
	if e.outputWriter != nil {
		if err := e.outputWriter(line); err != nil {
			log.Warnf("output writer: %v", err)
		}
	}
}

// Eval evaluates a single expression against the current variables.
//
// Rules are tried in a fixed order and the first one that applies wins:
// string literal, number literal, true/false/null, list literal, map
// literal, bound variable, concatenation, call, then arithmetic with '*',
// '/' and '+' tried in that order. There is no operator precedence and no
// grouping: 2*3+4 splits on '*' first and yields 2*(3+4).
func (e *Evaluator) Eval(src string) (value.Value, error) {
	s := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(src), ";"))
	if s == "" {
		return value.Null{}, nil
	}

	if isStringLiteral(s) {
		return value.Str{V: s[1 : len(s)-1]}, nil
	}
	if n, ok := value.ParseNumber(s); ok {
		return n, nil
	}
	switch s {
	case "true":
		return value.Bool{V: true}, nil
	case "false":
		return value.Bool{V: false}, nil
	case "null":
		return value.Null{}, nil
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return e.evalList(s)
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return e.evalMap(s)
	}
	if scanner.IsIdentifier(s) {
		if v, ok := e.vars.Get(s); ok {
			return v, nil
		}
	}

	if strings.Contains(s, "+") && (scanner.HasQuote(s) || e.namesVariable(s)) {
		if parts := scanner.Split(s, '+'); len(parts) > 1 {
			return e.evalConcat(s, parts)
		}
	}

	var callErr error
	switch res := e.tryCall(s); res.outcome {
	case callOK:
		return res.val, nil
	case callFailed:
		var le *LanguageError
		if !errors.As(res.err, &le) {
			return nil, res.err
		}
		log.Debugf("call %q failed, trying arithmetic: %v", s, res.err)
		callErr = res.err
	}

	v, ok, err := e.evalArithmetic(s)
	if err != nil {
		return nil, err
	}
	if ok {
		return v, nil
	}

	if callErr != nil {
		return nil, callErr
	}
	return nil, noMatch(s)
}

// isStringLiteral reports whether s is exactly one quoted string: it starts
// and ends with the same quote character and contains no other.
func isStringLiteral(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	if q != '"' && q != '\'' {
		return false
	}
	return s[len(s)-1] == q && strings.Count(s, string(q)) == 2
}

// namesVariable reports whether any '+'-separated segment of s is a bound name.
func (e *Evaluator) namesVariable(s string) bool {
	for _, part := range scanner.Split(s, '+') {
		if e.vars.Has(part) {
			return true
		}
	}
	return false
}

func (e *Evaluator) evalList(s string) (value.Value, error) {
	var items []value.Value
	for _, part := range scanner.SplitArgs(s[1 : len(s)-1]) {
		v, err := e.Eval(part)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return value.List{Items: items}, nil
}

// evalMap evaluates {key: expr, ...}. A key is a quoted string or a bare word.
func (e *Evaluator) evalMap(s string) (value.Value, error) {
	m := value.NewMap()
	for _, entry := range scanner.SplitArgs(s[1 : len(s)-1]) {
		colon := scanner.IndexTopLevel(entry, ':')
		if colon < 0 {
			return nil, noMatch(s)
		}
		key := strings.TrimSpace(entry[:colon])
		if isStringLiteral(key) {
			key = key[1 : len(key)-1]
		} else if !scanner.IsIdentifier(key) {
			return nil, noMatch(s)
		}
		v, err := e.Eval(entry[colon+1:])
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

// evalConcat joins the text of every '+' segment. Without any quote in the
// expression and with only numbers on every side, the segments are summed
// instead, so a + b on two bound numbers is arithmetic.
func (e *Evaluator) evalConcat(s string, parts []string) (value.Value, error) {
	vals := make([]value.Value, 0, len(parts))
	numeric := !scanner.HasQuote(s)
	for _, part := range parts {
		v, err := e.Eval(part)
		if err != nil {
			return nil, err
		}
		numeric = numeric && value.IsNumber(v)
		vals = append(vals, v)
	}

	if numeric {
		sum := vals[0]
		for _, v := range vals[1:] {
			var err error
			if sum, err = value.Add(sum, v); err != nil {
				return nil, err
			}
		}
		return sum, nil
	}

	var sb strings.Builder
	for _, v := range vals {
		sb.WriteString(v.String())
	}
	return value.Str{V: sb.String()}, nil
}

// evalArithmetic applies the first of '*', '/', '+' that splits s into more
// than one operand. Operand errors and '*' or '/' type errors propagate; a '+'
// whose operands do not add up is reported as not applicable.
func (e *Evaluator) evalArithmetic(s string) (value.Value, bool, error) {
	for _, op := range []rune{'*', '/', '+'} {
		if !strings.ContainsRune(s, op) {
			continue
		}
		if op == '+' && scanner.HasQuote(s) {
			continue
		}
		parts := scanner.Split(s, op)
		if len(parts) < 2 {
			continue
		}

		operands := make([]value.Value, 0, len(parts))
		for _, part := range parts {
			v, err := e.Eval(part)
			if err != nil {
				return nil, false, err
			}
			operands = append(operands, v)
		}

		var reduce func(a, b value.Value) (value.Value, error)
		acc := operands[0]
		switch op {
		case '*':
			reduce = value.Mul
		case '/':
			reduce = value.Div
		case '+':
			reduce = value.Add
		}
		for _, v := range operands[1:] {
			var err error
			acc, err = reduce(acc, v)
			if err != nil {
				if op == '+' {
					log.Debugf("%q is not a sum: %v", s, err)
					return nil, false, nil
				}
				return nil, false, err
			}
		}
		return acc, true, nil
	}
	return nil, false, nil
}
