package airports

import (
	"strings"
	"sync"
	"time"
)

type Airport struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

// The supported set is fixed; codes are not checked against a live directory.
var directory = []Airport{
	{Code: "CDG", Label: "Paris (CDG)", City: "Paris", Country: "France", Timezone: "Europe/Paris"},
	{Code: "DAC", Label: "Dhaka (DAC)", City: "Dhaka", Country: "Bangladesh", Timezone: "Asia/Dhaka"},
	{Code: "DXB", Label: "Dubai (DXB)", City: "Dubai", Country: "UAE", Timezone: "Asia/Dubai"},
	{Code: "NRT", Label: "Tokyo (NRT)", City: "Tokyo", Country: "Japan", Timezone: "Asia/Tokyo"},
	{Code: "LHR", Label: "London (LHR)", City: "London", Country: "UK", Timezone: "Europe/London"},
	{Code: "JFK", Label: "New York (JFK)", City: "New York", Country: "USA", Timezone: "America/New_York"},
	{Code: "SIN", Label: "Singapore (SIN)", City: "Singapore", Country: "Singapore", Timezone: "Asia/Singapore"},
}

var byCode = func() map[string]Airport {
	m := make(map[string]Airport, len(directory))
	for _, a := range directory {
		m[a.Code] = a
	}
	return m
}()

const (
	DefaultOrigin      = "CDG"
	DefaultDestination = "DAC"
	defaultLeadDays    = 7
)

func All() []Airport {
	out := make([]Airport, len(directory))
	copy(out, directory)
	return out
}

func Lookup(code string) (Airport, bool) {
	a, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

func IsKnown(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// OrDefault returns code when known, otherwise fallback.
func OrDefault(code, fallback string) string {
	if a, ok := Lookup(code); ok {
		return a.Code
	}
	return fallback
}

// DefaultDate is one week after now, as YYYY-MM-DD.
func DefaultDate(now time.Time) string {
	return now.AddDate(0, 0, defaultLeadDays).Format("2006-01-02")
}

var (
	locMu    sync.Mutex
	locCache = map[string]*time.Location{}
)

// LocationByAirport resolves the airport's zone, UTC for unknown codes or zones
// missing from the host tz database.
func LocationByAirport(code string) *time.Location {
	a, ok := Lookup(code)
	if !ok {
		return time.UTC
	}

	locMu.Lock()
	defer locMu.Unlock()

	if loc, ok := locCache[a.Timezone]; ok {
		return loc
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		loc = time.UTC
	}
	locCache[a.Timezone] = loc
	return loc
}

// ParseTimestamp reads an upstream segment time. Upstream times carry no offset
// and are local to the airport, so airportCode selects the zone for those.
func ParseTimestamp(timeStr string, airportCode string) (time.Time, error) {
	withOffset := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-0700", // Without colon
	}
	for _, format := range withOffset {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t, nil
		}
	}

	loc := LocationByAirport(airportCode)
	local := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
	}
	for _, format := range local {
		if t, err := time.ParseInLocation(format, timeStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   timeStr,
		Message: "unable to parse time string",
	}
}

// ClockTime renders the wall-clock part of an upstream timestamp as HH:MM, or ""
// when it cannot be parsed.
func ClockTime(timeStr string, airportCode string) string {
	t, err := ParseTimestamp(timeStr, airportCode)
	if err != nil {
		return ""
	}
	return t.Format("15:04")
}
