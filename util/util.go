// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/streamsnag-cli/streamsnag/constant"
	"github.com/streamsnag-cli/streamsnag/filesystem"
)

// invalidFilenameChars matches path separators, reserved punctuation and control characters.
var invalidFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1F]+`)

// repeatedWhitespace collapses runs of whitespace into a single space.
var repeatedWhitespace = regexp.MustCompile(`\s+`)

// SanitizeFilename normalizes a string into a safe, cross-platform filesystem-compliant filename stem.
// Empty or fully-stripped input falls back to a fixed stem so an output template is always valid.
func SanitizeFilename(filename string) string {
	text := strings.TrimSpace(filename)
	if text == "" {
		return constant.FallbackStem
	}

	text = invalidFilenameChars.ReplaceAllString(text, " ")
	text = strings.Trim(repeatedWhitespace.ReplaceAllString(text, " "), " .")
	if text == "" {
		return constant.FallbackStem
	}

	// Keep stems short enough for restrictive filesystems.
	if len(text) > 90 {
		text = strings.TrimRight(text[:90], " .")
	}
	if text == "" {
		return constant.FallbackStem
	}
	return text
}

// Capitalize transforms the first rune of a string to its uppercase equivalent.
func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PrintErasable prints an ephemeral message to the terminal and returns a closure to clear it.
func PrintErasable(msg string) (eraser func()) {
	fmt.Fprintf(os.Stdout, "\r%s", msg)
	return func() {
		fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", len(msg)))
	}
}

// Ignore executes a function and explicitly discards its error return value.
func Ignore(f func() error) {
	_ = f()
}

// Delete recursively removes a file or directory using the virtualized filesystem API.
func Delete(path string) error {
	fs := filesystem.API()
	stat, err := fs.Stat(path)
	if err != nil {
		return err
	}

	if stat.IsDir() {
		return fs.RemoveAll(path)
	}
	return fs.Remove(path)
}
