// Package isoduration parses the compact ISO-8601 durations reported by the
// YouTube Data API (PT#H#M#S).
package isoduration

import (
	"math"
	"regexp"
	"strconv"
)

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// Seconds converts a duration token such as "PT1H2M3S" to total seconds.
// ok is false for empty tokens and anything that is not of that exact shape,
// including day-designated tokens like "P1DT2H". "PT" alone is zero.
func Seconds(token string) (seconds int, ok bool) {
	if token == "" {
		return 0, false
	}
	m := durationRe.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}

	units := [3]int{3600, 60, 1}
	for i, unit := range units {
		group := m[i+1]
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil || n > (math.MaxInt-seconds)/unit {
			return 0, false
		}
		seconds += n * unit
	}
	return seconds, true
}

// Parse is the pointer form of Seconds: nil when the token is absent or malformed.
func Parse(token *string) *int {
	if token == nil {
		return nil
	}
	s, ok := Seconds(*token)
	if !ok {
		return nil
	}
	return &s
}
