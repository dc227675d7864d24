package utils

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUserInitiatedExit is returned when the user asked to leave, such as via help or version.
var ErrUserInitiatedExit = errors.New("user exit")

// ShortenedOutput keeps the first maxLines lines of out and notes how much was left out.
func ShortenedOutput(out string, maxLines int) string {
	lines := strings.Split(out, "\n")
	if maxLines <= 0 || len(lines) <= maxLines {
		return out
	}
	kept := strings.Join(lines[:maxLines], "\n")
	rest := strings.Join(lines[maxLines:], "\n")
	return fmt.Sprintf("%v\n...and %v more runes", kept, utf8.RuneCountInString(rest))
}

// Truncate out to at most limit runes, appending '...' when anything was cut.
func Truncate(out string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(out) <= limit {
		return out
	}
	r := []rune(out)
	return string(r[:limit]) + "..."
}
