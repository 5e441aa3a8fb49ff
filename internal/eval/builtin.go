// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"nickandperla.net/goul/internal/value"
)

// BuiltinFunc is the signature for builtin functions. Arguments arrive
// already evaluated.
type BuiltinFunc func(e *Evaluator, args []value.Value) (value.Value, error)

// getBuiltin returns the builtin function for the given name, or nil if not found.
func getBuiltin(name string) BuiltinFunc {
	switch name {
	case "print", "echo":
		return builtinPrint
	case "input":
		return builtinInput
	case "len":
		return builtinLen
	case "str":
		return builtinStr
	case "int":
		return builtinInt
	case "float":
		return builtinFloat
	case "type":
		return builtinType
	case "html":
		return builtinHTML
	case "tag":
		return builtinTag
	case "css":
		return builtinCSS
	}
	return nil
}

// Builtins lists the builtin names.
func Builtins() []string {
	return []string{"print", "echo", "input", "len", "str", "int", "float", "type", "html", "tag", "css"}
}

// arity checks that a builtin received between lo and hi arguments.
func arity(name string, args []value.Value, lo, hi int) error {
	n := len(args)
	if n >= lo && n <= hi {
		return nil
	}
	if lo == hi {
		return fmt.Errorf("%s() takes exactly %d argument(s) (%d given)", name, lo, n)
	}
	return fmt.Errorf("%s() takes from %d to %d arguments (%d given)", name, lo, hi, n)
}

func builtinPrint(e *Evaluator, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	line := strings.Join(parts, " ")
	e.emit(line)
	return value.Str{V: line}, nil
}

func builtinInput(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("input", args, 0, 1); err != nil {
		return nil, err
	}
	prompt := ""
	if len(args) == 1 {
		prompt = args[0].String()
	}
	e.emit("[INPUT REQUIRED: " + prompt + "]")
	return value.Str{V: e.placeholder}, nil
}

func builtinLen(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("len", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case value.List:
		return value.Int{V: int64(len(v.Items))}, nil
	case value.Str:
		return value.Int{V: int64(utf8.RuneCountInString(v.V))}, nil
	case *value.Map:
		return value.Int{V: int64(v.Len())}, nil
	}
	return value.Int{V: 0}, nil
}

func builtinStr(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("str", args, 1, 1); err != nil {
		return nil, err
	}
	return value.Str{V: args[0].String()}, nil
}

func builtinInt(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("int", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case value.Int, value.BigInt:
		return v, nil
	case value.Float:
		if math.IsInf(v.V, 0) || math.IsNaN(v.V) {
			return nil, fmt.Errorf("cannot convert float %s to integer", v)
		}
		// Conversions outside the int64 range are undefined in Go.
		if v.V >= -(1<<63) && v.V < 1<<63 {
			return value.Int{V: int64(v.V)}, nil
		}
		n, _ := big.NewFloat(v.V).Int(nil)
		return value.NewInt(n), nil
	case value.Bool:
		if v.V {
			return value.Int{V: 1}, nil
		}
		return value.Int{V: 0}, nil
	case value.Str:
		text := strings.TrimSpace(v.V)
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value.Int{V: i}, nil
		}
		if n, ok := new(big.Int).SetString(text, 10); ok {
			return value.NewInt(n), nil
		}
		return nil, fmt.Errorf("invalid literal for int() with base 10: '%s'", v.V)
	}
	return nil, fmt.Errorf("int() argument must be a string or a number, not '%s'", args[0].Type())
}

func builtinFloat(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("float", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case value.Float:
		return v, nil
	case value.Int, value.BigInt:
		f, err := value.ToFloat(v)
		if err != nil {
			return nil, err
		}
		return value.Float{V: f}, nil
	case value.Bool:
		if v.V {
			return value.Float{V: 1}, nil
		}
		return value.Float{V: 0}, nil
	case value.Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.V), 64)
		if err != nil {
			return nil, fmt.Errorf("could not convert string to float: '%s'", v.V)
		}
		return value.Float{V: f}, nil
	}
	return nil, fmt.Errorf("float() argument must be a string or a number, not '%s'", args[0].Type())
}

func builtinType(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("type", args, 1, 1); err != nil {
		return nil, err
	}
	return value.Str{V: args[0].Type()}, nil
}

// builtinHTML wraps a fragment in a minimal document unless it already is one,
// and records it in the output between [HTML] and [/HTML] markers.
func builtinHTML(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("html", args, 1, 1); err != nil {
		return nil, err
	}
	content, ok := args[0].(value.Str)
	if !ok {
		return nil, fmt.Errorf("html() argument must be str, not '%s'", args[0].Type())
	}
	doc := content.V
	trimmed := strings.TrimSpace(doc)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		doc = "<!DOCTYPE html><html><body>" + doc + "</body></html>"
	}
	e.emit("[HTML]" + doc + "[/HTML]")
	return value.Str{V: doc}, nil
}

// builtinTag builds <name attrs>content</name>. Attributes come from an
// optional map and keep its order.
func builtinTag(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("tag", args, 1, 3); err != nil {
		return nil, err
	}
	name := args[0].String()
	content := ""
	if len(args) > 1 {
		content = args[1].String()
	}

	var attrs strings.Builder
	if len(args) > 2 {
		switch m := args[2].(type) {
		case value.Null:
		case *value.Map:
			for _, k := range m.Keys() {
				v, _ := m.Get(k)
				fmt.Fprintf(&attrs, ` %s="%s"`, k, v.String())
			}
		default:
			return nil, fmt.Errorf("tag() attributes must be a dict, not '%s'", m.Type())
		}
	}

	return value.Str{V: "<" + name + attrs.String() + ">" + content + "</" + name + ">"}, nil
}

// builtinCSS builds a single rule: selector { k: v; k2: v2; }.
func builtinCSS(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := arity("css", args, 2, 2); err != nil {
		return nil, err
	}
	style, ok := args[1].(*value.Map)
	if !ok {
		return nil, fmt.Errorf("css() style must be a dict, not '%s'", args[1].Type())
	}
	decls := make([]string, 0, style.Len())
	for _, k := range style.Keys() {
		v, _ := style.Get(k)
		decls = append(decls, k+": "+v.String())
	}
	return value.Str{V: args[0].String() + " { " + strings.Join(decls, "; ") + "; }"}, nil
}
