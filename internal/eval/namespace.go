// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the goul interpreter.
package eval

import "nickandperla.net/goul/internal/value"

// Namespace is the flat variable environment of a run. There is no lexical
// nesting: a user function call works on a Clone and the caller's namespace
// is put back afterwards.
type Namespace struct {
	store map[string]value.Value
}

// NewNamespace creates a new empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		store: make(map[string]value.Value),
	}
}

// Get retrieves a variable by name.
func (n *Namespace) Get(name string) (value.Value, bool) {
	v, ok := n.store[name]
	return v, ok
}

// Set stores a variable by name.
func (n *Namespace) Set(name string, v value.Value) {
	n.store[name] = v
}

// Has returns true if the name is bound.
func (n *Namespace) Has(name string) bool {
	_, ok := n.store[name]
	return ok
}

// Clone creates a shallow copy of the namespace.
func (n *Namespace) Clone() *Namespace {
	clone := &Namespace{store: make(map[string]value.Value, len(n.store))}
	for k, v := range n.store {
		clone.store[k] = v
	}
	return clone
}
