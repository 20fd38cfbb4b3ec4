package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _                ",
	" | |_ _ __  ___    ",
	" | __| '_ \\/ __|   ",
	" | |_| |_) \\__ \\   ",
	"  \\__| .__/|___/   ",
	"     |_|           ",
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

// PrintBanner writes the tps banner and version to w. Colors are dropped
// when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i])))
	}
	fmt.Fprintf(w, "  transition path sampling %s\n\n", strings.TrimSpace(version))
}
