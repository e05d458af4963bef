package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoTerminal is returned when input is not interactive
var ErrNoTerminal = errors.New("standard input is not a terminal")

// TerminalPrompter reads values from the controlling terminal; secrets are not echoed
type TerminalPrompter struct {
	in  *os.File
	out io.Writer
}

// NewTerminalPrompter creates a prompter on stdin/stderr
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{in: os.Stdin, out: os.Stderr}
}

// Prompt asks for label and returns the trimmed answer
func (p *TerminalPrompter) Prompt(label string, secret bool) (string, error) {
	fd := int(p.in.Fd()) //nolint:gosec // G115: File descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}

	fmt.Fprintf(p.out, "%s: ", label)

	if secret {
		value, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return strings.TrimSpace(string(value)), nil
	}

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
