package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

func readPassword(prompt string, confirm bool) (string, error) {
	return readSecret(prompt, "password", confirm)
}

// readSecret prompts for a secret with echo disabled, optionally asking for it a second time
// to confirm it. Piped input is read a line at a time without prompting.
func readSecret(prompt string, subject string, confirm bool) (string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return readLine(subject)
	}

	fmt.Fprint(os.Stderr, prompt)
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("error reading %v (%w)", subject, err)
	}

	if len(first) == 0 {
		return "", fmt.Errorf("%v is empty", subject)
	}

	if confirm {
		fmt.Fprint(os.Stderr, "Confirm "+strings.ToLower(prompt))
		second, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("error reading %v confirmation (%w)", subject, err)
		}

		if !bytes.Equal(first, second) {
			return "", fmt.Errorf("%v confirmation does not match", subject)
		}
	}

	return string(first), nil
}

func readLine(subject string) (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	if line = strings.TrimRight(line, "\r\n"); line == "" {
		return "", fmt.Errorf("%v is empty", subject)
	}

	return line, nil
}
