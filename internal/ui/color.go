package ui

import (
	"github.com/pterm/pterm"
)

// LightTheme selects colours readable on light terminal backgrounds.
var LightTheme bool

func Green(a any) string {
	if LightTheme {
		return pterm.Green(a)
	}

	return pterm.LightGreen(a)
}

func Blue(a any) string {
	if LightTheme {
		return pterm.Blue(a)
	}

	return pterm.LightBlue(a)
}

func Red(a any) string {
	if LightTheme {
		return pterm.Red(a)
	}

	return pterm.LightRed(a)
}
