package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errEmptyInput = errors.New("input is required")

// promptLine prints label and reads one trimmed, non-empty line.
func promptLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Fprint(w, label)
		input, err := r.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			return input, nil
		}
		if err != nil {
			return "", err
		}
		fmt.Fprintln(w, "  Error: a value is required")
	}
	return "", errEmptyInput
}

// promptSecret reads a line without echo when stdin is a terminal.
func promptSecret(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(r, w, label)
	}
	fmt.Fprint(w, label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	if len(secret) == 0 {
		return "", errEmptyInput
	}
	return string(secret), nil
}
