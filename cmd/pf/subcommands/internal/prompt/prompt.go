// Package prompt reads interactive input for subcommands.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for a value.
//
// When secret is true, the input should not be echoed back.
type Prompter func(label string, secret bool) (string, error)

// Terminal builds a Prompter reading from in and writing labels to out.
//
// Secret values are read without echo when in is a terminal.
func Terminal(in *os.File, out io.Writer) Prompter {
	reader := bufio.NewReader(in)
	return func(label string, secret bool) (string, error) {
		fmt.Fprintf(out, "%s: ", label)

		if secret && term.IsTerminal(int(in.Fd())) {
			buf, err := term.ReadPassword(int(in.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			return string(buf), nil
		}

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// Confirm asks a y/N question. Anything but "y" or "yes" declines.
func Confirm(p Prompter, question string) (bool, error) {
	answer, err := p(question+" [y/N]", false)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Fixed builds a Prompter returning canned answers, for tests.
func Fixed(answers map[string]string) Prompter {
	return func(label string, _ bool) (string, error) {
		v, ok := answers[label]
		if !ok {
			return "", fmt.Errorf("no answer for prompt %q", label)
		}
		return v, nil
	}
}
