package commands

import (
	"bufio"
	"strings"
	"testing"
)

func TestReadLine(t *testing.T) {
	defer func(r *bufio.Reader) { stdin = r }(stdin)

	stdin = bufio.NewReader(strings.NewReader("qwerty\r\nuiop"))

	for _, expected := range []string{"qwerty", "uiop"} {
		if line, err := readLine("password"); err != nil {
			t.Fatalf("Unexpected error reading line (%v)", err)
		} else if line != expected {
			t.Errorf("Incorrect line - expected:%v, got:%v", expected, line)
		}
	}
}

func TestReadLineWithEmptyInput(t *testing.T) {
	defer func(r *bufio.Reader) { stdin = r }(stdin)

	stdin = bufio.NewReader(strings.NewReader("\n"))

	_, err := readLine("API key")
	if err == nil {
		t.Fatalf("Expected error reading empty API key")
	}

	if err.Error() != "API key is empty" {
		t.Errorf("Incorrect error - expected:%v, got:%v", "API key is empty", err)
	}
}
