package player

import "github.com/muraschal/radiox-frontend/internal/show"

// Transcript timing rules. A line's window runs from its own timestamp
// to the next line's timestamp; the last line has no successor, so it
// gets an assumed tail window. Word highlighting runs slightly ahead of
// the computed fraction so it appears to anticipate speech.

// ActiveLineIndex resolves the highlighted line for a segment-relative
// time: the last line whose window contains t. Before the first line's
// timestamp the first line is active; past the last window the last line
// stays active.
func ActiveLineIndex(lines []show.TranscriptLine, relativeTime float64) int {
	if len(lines) == 0 {
		return 0
	}
	active := 0
	for i := range lines {
		if lines[i].Timestamp <= relativeTime {
			active = i
		} else {
			break
		}
	}
	return active
}

// LineWindow returns the start and end of the line's time window.
func LineWindow(lines []show.TranscriptLine, idx int, tailWindow float64) (float64, float64) {
	if idx < 0 || idx >= len(lines) {
		return 0, 0
	}
	start := lines[idx].Timestamp
	if idx+1 < len(lines) {
		return start, lines[idx+1].Timestamp
	}
	return start, start + tailWindow
}

// WordFraction computes how far through its window the active line is,
// advanced by the lead-in and clamped to [0, 1].
func WordFraction(lines []show.TranscriptLine, idx int, relativeTime, tailWindow, leadIn float64) float64 {
	start, end := LineWindow(lines, idx, tailWindow)
	if end <= start {
		return 0
	}
	frac := (relativeTime - start) / (end - start)
	if frac < 0 {
		return 0
	}
	frac += leadIn
	if frac > 1 {
		return 1
	}
	return frac
}

// SpokenWordCount maps a progress fraction onto whitespace-delimited
// words: how many of them count as already spoken.
func SpokenWordCount(totalWords int, fraction float64) int {
	if totalWords <= 0 {
		return 0
	}
	n := int(fraction * float64(totalWords))
	if n > totalWords {
		return totalWords
	}
	if n < 0 {
		return 0
	}
	return n
}
