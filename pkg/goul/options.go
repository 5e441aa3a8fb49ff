// Package goul provides the public API for embedding the goul interpreter.
package goul

import "io"

// Option configures a Runtime.
type Option func(*Runtime)

// WithPrelude sets a custom prelude source whose functions are registered
// before every script. If not set, DefaultPrelude is used.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithNoStdlib disables loading the prelude.
func WithNoStdlib() Option {
	return func(r *Runtime) {
		r.noStdlib = true
	}
}

// WithMaxCallDepth bounds nested user function calls. Values below 1 are ignored.
func WithMaxCallDepth(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithInputPrompt sets the text input() returns in place of real user input.
func WithInputPrompt(placeholder string) Option {
	return func(r *Runtime) {
		r.placeholder = placeholder
	}
}

// WithOutputWriter mirrors each output line to writer as it is produced.
func WithOutputWriter(writer func(line string) error) Option {
	return func(r *Runtime) {
		r.outputWriter = writer
	}
}

// WithOutput mirrors output lines to w, each followed by a newline.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.outputWriter = func(line string) error {
			_, err := io.WriteString(w, line+"\n")
			return err
		}
	}
}
