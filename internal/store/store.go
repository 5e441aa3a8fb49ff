// Package store provides persistence for goul scripts on the host side: the
// virtual files a host reads source text from before handing it to the
// interpreter.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Delete when the script does not exist.
var ErrNotFound = errors.New("script not found")

// Script is a named piece of goul source.
type Script struct {
	Name     string
	Content  string
	Created  time.Time
	Modified time.Time
}

// Size returns the length of the content in bytes.
func (s Script) Size() int {
	return len(s.Content)
}

// Store is the interface for script persistence.
type Store interface {
	// Get retrieves a script by name. Returns nil if not found.
	Get(name string) (*Script, error)
	// Put stores a script by name, overwriting if it exists.
	Put(name, content string) error
	// Delete removes a script by name.
	Delete(name string) error
	// List returns every script ordered by name.
	List() ([]Script, error)
	// Close releases resources.
	Close() error
}

// MetadataStore extends Store with metadata operations.
type MetadataStore interface {
	Store
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}
