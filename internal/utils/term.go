package utils

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// TermWidth returns the current terminal width.
//
// In CI / tests there is often no TTY attached, in which case we fall back
// to $COLUMNS if present, otherwise 80.
func TermWidth() int {
	if c := os.Getenv("COLUMNS"); c != "" {
		if n, err := strconv.Atoi(c); err == nil && n > 0 {
			return n
		}
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// Separator returns a line of c, at most as wide as the terminal.
func Separator(c rune, width int) string {
	if tw := TermWidth(); width > tw {
		width = tw
	}
	out := make([]rune, width)
	for i := range out {
		out[i] = c
	}
	return string(out)
}
