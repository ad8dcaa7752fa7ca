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

// Seams for the terminal; tests replace them.
var (
	readPassword = term.ReadPassword
	stdinIsTTY   = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

// ErrEmptyInput is returned when a prompt gets a blank answer.
var ErrEmptyInput = errors.New("empty input")

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetSimpleText prints prompt to w and reads one trimmed line from reader.
// A final line without a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ErrEmptyInput
	}
	return line, nil
}

// GetPassword prompts for a password. On a terminal it reads without echo;
// when stdin is piped it takes the next line from reader, so scripts can
// run "printf 'alice\nsecret\n' | gophauth login".
//
// The caller wipes the returned slice.
func GetPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}

	var (
		pw  []byte
		err error
	)
	if stdinIsTTY() {
		pw, err = readPassword(int(os.Stdin.Fd()))
	} else {
		var line string
		line, err = readLine(reader)
		pw = []byte(line)
	}
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return nil, ErrEmptyInput
	}
	return pw, nil
}
