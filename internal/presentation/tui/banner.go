package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the morselink banner to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Amber to red, like an old valve radio dial.
	lines := []struct{ text, color string }{
		{"  _ __ ___   ___  _ __ ___  ___| (_)_ __ | | __", "#fbbf24"},
		{" | '_ ` _ \\ / _ \\| '__/ __|/ _ \\ | | '_ \\| |/ /", "#f59e0b"},
		{" | | | | | | (_) | |  \\__ \\  __/ | | | | |   < ", "#f97316"},
		{" |_| |_| |_|\\___/|_|  |___/\\___|_|_|_| |_|_|\\_\\", "#ef4444"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  -- --- .-. ... . .-.. .. -. -.-   "+version).Faint())
	fmt.Fprintln(w)
}
