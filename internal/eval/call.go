// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"strings"

	"fortio.org/log"

	"nickandperla.net/goul/internal/scanner"
	"nickandperla.net/goul/internal/value"
)

// callOutcome is the result kind of tryCall.
type callOutcome int

const (
	notCall    callOutcome = iota // the expression is not name(args)
	callOK                        // the call ran and produced val
	callFailed                    // the call shape matched but evaluation failed with err
)

type callResult struct {
	outcome callOutcome
	val     value.Value
	err     error
}

// callShape splits s into a function name and raw argument text when s is an
// identifier followed by a parenthesized list that closes at the very end.
func callShape(s string) (name, args string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	name = strings.TrimSpace(s[:open])
	if !scanner.IsIdentifier(name) {
		return "", "", false
	}
	if scanner.MatchingClose(s, open) != len(s)-1 {
		return "", "", false
	}
	return name, s[open+1 : len(s)-1], true
}

// tryCall evaluates s as a function call if it has the shape of one. The
// caller decides whether a failure is final or a cue to try the next rule.
func (e *Evaluator) tryCall(s string) callResult {
	name, args, ok := callShape(s)
	if !ok {
		return callResult{outcome: notCall}
	}
	v, err := e.Call(name, args)
	if err != nil {
		return callResult{outcome: callFailed, err: err}
	}
	return callResult{outcome: callOK, val: v}
}

// Call evaluates each comma-separated argument in argsRaw and invokes name,
// looking among user functions first and builtins second.
func (e *Evaluator) Call(name, argsRaw string) (value.Value, error) {
	var args []value.Value
	for _, raw := range scanner.SplitArgs(argsRaw) {
		v, err := e.Eval(raw)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, builtin, ok := e.registry.Lookup(name)
	if !ok {
		return nil, undefinedFunction(name)
	}
	if fn != nil {
		return e.callUser(fn, args)
	}
	log.LogVf("builtin %s(%d args)", name, len(args))
	return builtin(e, args)
}

// callUser runs fn on a copy of the caller's variables. Parameters are bound
// positionally; extra arguments are ignored and missing ones stay unbound.
// Every variable change made by the body is discarded when the call returns;
// only the returned value survives.
func (e *Evaluator) callUser(fn *Function, args []value.Value) (value.Value, error) {
	if e.depth >= e.maxDepth {
		return nil, ErrRecursionDepth
	}
	e.depth++
	saved := e.vars
	e.vars = saved.Clone()
	defer func() {
		e.vars = saved
		e.depth--
	}()

	for i, param := range fn.Params {
		if i < len(args) {
			e.vars.Set(param, args[i])
		}
	}

	log.LogVf("call %s depth=%d", fn.Name, e.depth)
	result, _, err := e.execBlock(fn.Lines(), 0)
	if err != nil {
		return nil, err
	}
	return result, nil
}
