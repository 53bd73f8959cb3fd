package animatic

import (
	"math"
	"unicode/utf8"
)

const (
	// lines shorter than this get floorWeight so silent shots keep a visible slot
	minWeightedLength = 5
	floorWeight       = 20
)

// Range is the [Start, End) slice of overall progress owned by one shot.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r Range) Contains(p float64) bool {
	return r.Start <= p && p < r.End
}

// Weights is the character length of every line, floored for short lines.
func Weights(lines []string) []int {
	weights := make([]int, len(lines))
	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		if n < minWeightedLength {
			n = floorWeight
		}
		weights[i] = n
	}
	return weights
}

// Partition maps the voiceover lines onto cumulative ranges covering [0, 1].
func Partition(lines []string) []Range {
	weights := Weights(lines)
	total := 0
	for _, w := range weights {
		total += w
	}
	ranges := make([]Range, len(weights))
	if total == 0 {
		return ranges
	}
	acc := 0
	for i, w := range weights {
		ranges[i].Start = float64(acc) / float64(total)
		acc += w
		ranges[i].End = float64(acc) / float64(total)
	}
	ranges[len(ranges)-1].End = 1
	return ranges
}

// ActiveIndex returns the shot whose range holds p. When nothing matches
// (p at or past the end) it returns the final shot and ok=false, meaning
// playback is finished.
func ActiveIndex(ranges []Range, p float64) (index int, ok bool) {
	for i, r := range ranges {
		if r.Contains(p) {
			return i, true
		}
	}
	if len(ranges) == 0 {
		return 0, false
	}
	return len(ranges) - 1, false
}

// EqualIndex splits progress evenly across n shots. Used when there is no
// narration: without audio there is no timing signal to weight against, so
// this deliberately disagrees with Partition.
func EqualIndex(n int, p float64) int {
	if n <= 0 {
		return 0
	}
	i := int(math.Floor(p * float64(n)))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
