package report

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsOutputTerminal reports whether stdout is attached to a terminal rather
// than being piped or redirected. Decorative notes (where the HTML report was
// written, history confirmations) are suppressed for piped output so the
// console report stays machine-consumable.
func IsOutputTerminal() bool {
	return IsTTY(os.Stdout.Fd())
}
