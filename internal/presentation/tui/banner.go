package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the galvani banner to w, coloured according to the
// terminal profile of w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Copper to amber, like a terminal tab
	lines := []struct {
		text  string
		color string
	}{
		{"   __ _  __ _| |_   ____ _ _ __ (_)", "#b45309"},
		{"  / _` |/ _` | \\ \\ / / _` | '_ \\| |", "#d97706"},
		{" | (_| | (_| | |\\ V / (_| | | | | |", "#f59e0b"},
		{"  \\__, |\\__,_|_| \\_/ \\__,_|_| |_|_|", "#fbbf24"},
		{"  |___/", "#fcd34d"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
