package console

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	magenta   = "\033[35m"
	bold      = "\033[1m"
)

const bannerWidth = 56

var logo = []string{
	`   ____              _ _   ____            _           `,
	`  / ___| _ __   __ _(_) | |  _ \  ___ _ __| |__  _   _ `,
	`  \___ \| '_ \ / _' | | | | | | |/ _ \ '__| '_ \| | | |`,
	`   ___) | | | | (_| | | | | |_| |  __/ |  | |_) | |_| |`,
	`  |____/|_| |_|\__,_|_|_| |____/ \___|_|  |_.__/ \__, |`,
	`                                                 |___/ `,
}

// PrintBanner writes the logo and, when animate is set, a short three-snail race
func PrintBanner(w io.Writer, version string, animate bool, frameDelay time.Duration) {
	border := strings.Repeat("═", bannerWidth)

	fmt.Fprintf(w, "\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Fprintf(w, "  %s║%s%-*s%s║%s\n", cyan, yellow, bannerWidth, line, cyan, reset)
	}
	fmt.Fprintf(w, "  %s╚%s╝%s\n", cyan, border, reset)
	fmt.Fprintf(w, "  %ssnailderby %s%s\n", bold, version, reset)

	if !animate {
		fmt.Fprintln(w)
		return
	}

	snails := []struct {
		art   string
		color string
		speed int
	}{
		{`_@_/`, red, 2},
		{`_@_/`, green, 3},
		{`_@_/`, magenta, 1},
	}
	finish := bannerWidth - len(snails[0].art)
	pos := make([]int, len(snails))

	for frame := 0; ; frame++ {
		done := true
		for i, s := range snails {
			pos[i] = min(pos[i]+s.speed, finish)
			if pos[i] < finish {
				done = false
			}
			fmt.Fprintf(w, "%s  %s║%s%s%s%s%s║%s\n", clearLine, cyan,
				strings.Repeat(".", pos[i]), s.color, s.art, reset,
				strings.Repeat(" ", finish-pos[i]), reset)
		}
		if done {
			break
		}
		fmt.Fprintf(w, moveUp, len(snails))
		time.Sleep(frameDelay)
	}
	fmt.Fprintln(w)
}
