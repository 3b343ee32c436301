// Package display formats text for the terminal.
package display

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return WrapWidth(text, DefaultWidth)
}

// WrapWidth word-wraps text to width. A width below one leaves text as is.
func WrapWidth(text string, width int) string {
	if width < 1 {
		return text
	}
	return wordwrap.String(text, width)
}

// Hanging wraps text after a prefix so continuation lines line up under
// the first character following it.
func Hanging(prefix, text string, width int) string {
	pad := utf8.RuneCountInString(prefix)
	wrapped := WrapWidth(text, width-pad)

	first, rest, found := strings.Cut(wrapped, "\n")
	if !found {
		return prefix + first
	}
	return prefix + first + "\n" + indent.String(rest, uint(pad))
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
