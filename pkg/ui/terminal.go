// Package ui selects and implements the terminal output strategy: a rich
// in-place panel for capable terminals, plain incremental text otherwise.
package ui

import "strings"

// Mode is the active render strategy.
type Mode int

const (
	// ModeRich re-renders the accumulated response inside a bordered
	// panel, redrawing in place.
	ModeRich Mode = iota
	// ModeSimple writes raw text with no redraws, preserving scrollback.
	ModeSimple
)

func (m Mode) String() string {
	if m == ModeRich {
		return "rich"
	}
	return "simple"
}

// Terminal emulators whose TERM_PROGRAM value is trusted for in-place
// redraws regardless of other signals.
var capablePrograms = map[string]bool{
	"vscode":       true,
	"iTerm.app":    true,
	"WezTerm":      true,
	"ghostty":      true,
	"Hyper":        true,
	"kitty":        true,
	"Tabby":        true,
	"alacritty":    true,
	"rio":          true,
	"WarpTerminal": true,
}

// TERM values known to mangle cursor-addressed redraws.
var incapableTerms = map[string]bool{
	"screen": true,
	"linux":  true,
	"dumb":   true,
}

// IsCapableTerminal decides whether the terminal can handle in-place
// panel redraws. It is a pure function of the provided environment
// lookup. Evaluation order: recognized TERM_PROGRAM wins outright, an
// SSH session downgrades, then TERM is matched against known-good
// substrings and known-bad values, defaulting to capable.
func IsCapableTerminal(getenv func(string) string) bool {
	if capablePrograms[getenv("TERM_PROGRAM")] {
		return true
	}

	if getenv("SSH_CLIENT") != "" || getenv("SSH_TTY") != "" {
		return false
	}

	termValue := getenv("TERM")
	if strings.Contains(termValue, "256color") {
		return true
	}
	if incapableTerms[termValue] {
		return false
	}

	return true
}

// SelectMode picks the render strategy. forceSimple always wins; it can
// never force rich output on an incapable terminal.
func SelectMode(forceSimple bool, getenv func(string) string) Mode {
	if forceSimple {
		return ModeSimple
	}
	if IsCapableTerminal(getenv) {
		return ModeRich
	}
	return ModeSimple
}
