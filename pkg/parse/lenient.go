// Package parse holds the lenient numeric parsing used on upstream offer data.
//
// Upstream fields that should be numeric are sometimes missing or malformed. The
// policy is to read such values as zero rather than fail: an offer with a broken
// price still renders, it simply falls outside most price ranges.
package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	hoursRe   = regexp.MustCompile(`(\d+)H`)
	minutesRe = regexp.MustCompile(`(\d+)M`)
)

// PriceOrZero parses a decimal price string. Empty, malformed and non-finite
// values yield 0.
func PriceOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// DurationHoursOrZero reads a PT<H>H<M>M duration as fractional hours.
// Either component may be absent and counts as 0; day components are ignored.
func DurationHoursOrZero(s string) float64 {
	hours := componentOrZero(hoursRe, s)
	minutes := componentOrZero(minutesRe, s)
	return float64(hours) + float64(minutes)/60
}

// DurationMinutesOrZero is DurationHoursOrZero in whole minutes.
func DurationMinutesOrZero(s string) int {
	return componentOrZero(hoursRe, s)*60 + componentOrZero(minutesRe, s)
}

func componentOrZero(re *regexp.Regexp, s string) int {
	matches := re.FindStringSubmatch(s)
	if len(matches) < 2 {
		return 0
	}
	v, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return v
}
