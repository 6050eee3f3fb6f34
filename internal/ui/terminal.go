package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether stdout should get ANSI colors. NO_COLOR
// wins over everything, then CLICOLOR_FORCE=1, CLICOLOR=0 and TERM=dumb;
// otherwise color is used only on a terminal.
func ShouldUseColor() bool {
	return useColor(os.Getenv, term.IsTerminal(int(os.Stdout.Fd())))
}

func useColor(getenv func(string) string, isTTY bool) bool {
	// https://no-color.org
	if getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(getenv("CLICOLOR")) == "0" || getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
