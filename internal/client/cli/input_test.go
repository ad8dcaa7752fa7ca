package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "line", in: "alice\n", want: "alice"},
		{name: "trimmed", in: "  alice \r\n", want: "alice"},
		{name: "last line without newline", in: "alice", want: "alice"},
		{name: "blank", in: "\n", wantErr: ErrEmptyInput},
		{name: "eof", in: "", wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetSimpleText(bufio.NewReader(strings.NewReader(tt.in)), "Enter user name", &out)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Enter user name")
		})
	}
}

func stubTTY(t *testing.T, tty bool, read func(int) ([]byte, error)) {
	t.Helper()
	origRead, origTTY := readPassword, stdinIsTTY
	readPassword = read
	stdinIsTTY = func() bool { return tty }
	t.Cleanup(func() { readPassword, stdinIsTTY = origRead, origTTY })
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTTY(t, true, func(int) ([]byte, error) { return []byte("s3cret"), nil })

	var out bytes.Buffer
	pw, err := GetPassword(bufio.NewReader(strings.NewReader("ignored\n")), &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(pw))
	assert.Contains(t, out.String(), "Enter password")
}

func TestGetPassword_TerminalError(t *testing.T) {
	errNoTTY := errors.New("no tty")
	stubTTY(t, true, func(int) ([]byte, error) { return nil, errNoTTY })

	_, err := GetPassword(bufio.NewReader(strings.NewReader("")), io.Discard)
	require.ErrorIs(t, err, errNoTTY)
}

func TestGetPassword_Piped(t *testing.T) {
	stubTTY(t, false, func(int) ([]byte, error) {
		t.Fatal("terminal must not be touched when stdin is piped")
		return nil, nil
	})

	reader := bufio.NewReader(strings.NewReader("alice\n s3cret \n"))
	user, err := GetSimpleText(reader, "Enter user name", io.Discard)
	require.NoError(t, err)
	pw, err := GetPassword(reader, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "alice", user)
	assert.Equal(t, " s3cret ", string(pw), "passwords are taken verbatim")
}

func TestGetPassword_PipedEmpty(t *testing.T) {
	stubTTY(t, false, nil)

	_, err := GetPassword(bufio.NewReader(strings.NewReader("\n")), io.Discard)
	require.ErrorIs(t, err, ErrEmptyInput)
}
