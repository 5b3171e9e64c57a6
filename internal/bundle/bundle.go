// SPDX-License-Identifier: MPL-2.0

// Package bundle turns a staged directory into a single executable file.
package bundle

import (
	"context"
	"errors"
	"fmt"
)

// ErrBundling is the sentinel error wrapped by Error.
var ErrBundling = errors.New("bundling failed")

type (
	// Payload is a file or directory shipped inside the artifact.
	Payload struct {
		// Source is the path on disk.
		Source string
		// Name is the path inside the artifact, relative to its root.
		Name string
	}

	// Request describes one artifact.
	Request struct {
		// Entry is the script executed when the artifact runs. It is stored
		// at the artifact root under its base name.
		Entry string
		// Payloads are the files the entry point needs next to it.
		Payloads []Payload
		// OutputName is the file name of the artifact.
		OutputName string
	}

	// Bundler produces an executable from a Request and returns its path.
	Bundler interface {
		Bundle(ctx context.Context, req Request) (string, error)
	}

	// Error is returned when an artifact cannot be produced.
	Error struct {
		Output string
		Err    error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("bundle %s: %v", e.Output, e.Err)
}

// Unwrap returns ErrBundling and the underlying cause.
func (e *Error) Unwrap() []error { return []error{ErrBundling, e.Err} }

// Validate checks that req names an entry point and an output.
func (r Request) Validate() error {
	switch {
	case r.Entry == "":
		return errors.New("no entry point")
	case r.OutputName == "":
		return errors.New("no output name")
	}
	for _, p := range r.Payloads {
		if p.Source == "" || p.Name == "" {
			return fmt.Errorf("incomplete payload %+v", p)
		}
	}
	return nil
}
