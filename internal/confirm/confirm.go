// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package confirm implements the interactive yes/no gate that guards every
// destructive step.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer decides whether a deletion category may proceed.
type Confirmer interface {
	Confirm(itemType string) bool
}

// Gate prompts on out and reads answers from in, one line per prompt.
type Gate struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewGate returns a Gate reading from in and prompting on out. When
// assumeYes is set the prompt is still printed but no input is read.
func NewGate(in io.Reader, out io.Writer, assumeYes bool) *Gate {
	return &Gate{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm asks whether all items of itemType should be deleted. Only a
// case-insensitive "y" (surrounding whitespace ignored) returns true. Empty
// input, EOF and read errors all count as a refusal.
func (g *Gate) Confirm(itemType string) bool {
	fmt.Fprintf(g.out, "Are you sure you wish to delete all %s? (Y/N) ", itemType)
	if g.assumeYes {
		fmt.Fprintln(g.out, "y")
		return true
	}

	line, err := g.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(g.out)
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}

// Always is a Confirmer with a fixed answer.
type Always bool

// Confirm returns the fixed answer.
func (a Always) Confirm(string) bool { return bool(a) }
