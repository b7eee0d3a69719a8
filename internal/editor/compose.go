package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/eduardofuncao/sqlhelp/internal/logger"
)

// ErrEmpty is returned when the editor is closed without a statement.
var ErrEmpty = errors.New("no statement entered")

// Command returns the editor command line from $VISUAL or $EDITOR, falling
// back to vi.
func Command() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// Compose opens the user's editor on a buffer holding header and initial,
// waits for it to exit and returns the statement without the header.
func Compose(header, initial string, stdin io.Reader, stdout, stderr io.Writer) (string, error) {
	tmpFile, err := createTempFile("sqlhelp-", header+initial)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpFile.Name())

	argv := append(Command(), tmpFile.Name())
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Debug("opening editor", "command", argv[0], "file", tmpFile.Name())
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s: %w", argv[0], err)
	}

	content, err := readTempFile(tmpFile.Name())
	if err != nil {
		return "", err
	}

	statement := StripInstructions(content)
	if statement == "" {
		return "", ErrEmpty
	}
	return statement, nil
}
