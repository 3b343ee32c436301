package display

import (
	"fmt"
	"strings"
)

// Countdown formats a number of seconds as mm:ss. Negative values show as
// zero.
func Countdown(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

const scoreBarWidth = 10

// ScoreBar draws a crisis score out of 100 as a ten cell bar.
func ScoreBar(score int) string {
	score = min(max(score, 0), 100)
	filled := score * scoreBarWidth / 100
	return fmt.Sprintf("[%s%s] %d/100",
		strings.Repeat("█", filled),
		strings.Repeat("░", scoreBarWidth-filled),
		score,
	)
}
