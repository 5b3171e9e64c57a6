// SPDX-License-Identifier: MPL-2.0

// Package shell renders and checks the POSIX sh scripts jar2native generates.
//
// Every generated script (the launcher and the self-extracting stub) goes
// through Format, which parses it as POSIX sh and prints it back in canonical
// form, so a template that produces invalid shell fails at build time rather
// than on the user's machine.
package shell

import (
	"bytes"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Quote returns s quoted for safe use as a single POSIX sh word.
func Quote(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quote %q: %w", s, err)
	}
	return q, nil
}

// Format parses src as a POSIX sh program and prints it in canonical form.
// Comments, including the interpreter line, are preserved.
func Format(name, src string) (string, error) {
	f, err := Parse(name, src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := syntax.NewPrinter(syntax.Indent(0)).Print(&buf, f); err != nil {
		return "", fmt.Errorf("print %s: %w", name, err)
	}
	return buf.String(), nil
}

// Parse parses src as a POSIX sh program.
func Parse(name, src string) (*syntax.File, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX), syntax.KeepComments(true))
	f, err := parser.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return f, nil
}
