package review

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsOutputTerminal checks if stdout is a TTY. The CLI uses this to
// pick human-readable log output interactively and JSON in CI.
func IsOutputTerminal() bool {
	return IsTTY(os.Stdout.Fd())
}
