package models

import (
	"strings"
)

type StopFilter string

const (
	StopsAny         StopFilter = "any"
	StopsDirect      StopFilter = "direct"
	StopsOneStopMax  StopFilter = "one_stop_max"
	StopsTwoStopsMax StopFilter = "two_stops_max"
)

// MaxSegments is the segment ceiling imposed by the filter; ok is false for "any".
func (s StopFilter) MaxSegments() (max int, ok bool) {
	switch s {
	case StopsDirect:
		return 1, true
	case StopsOneStopMax:
		return 2, true
	case StopsTwoStopsMax:
		return 3, true
	default:
		return 0, false
	}
}

func ParseStopFilter(s string) (StopFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return StopsAny, nil
	case "direct", "non-stop", "nonstop", "0":
		return StopsDirect, nil
	case "one_stop_max", "1":
		return StopsOneStopMax, nil
	case "two_stops_max", "2":
		return StopsTwoStopsMax, nil
	}
	return "", ErrInvalidStopFilter
}

type CabinFilter string

const (
	CabinAll                  CabinFilter = "all"
	CabinFilterEconomy        CabinFilter = "economy"
	CabinFilterPremiumEconomy CabinFilter = "premium_economy"
	CabinFilterBusiness       CabinFilter = "business"
	CabinFilterFirst          CabinFilter = "first"
)

// Matches compares against an upstream cabin code such as PREMIUM_ECONOMY.
func (c CabinFilter) Matches(cabin string) bool {
	if c == CabinAll || c == "" {
		return true
	}
	return cabin == strings.ToUpper(string(c))
}

func ParseCabinFilter(s string) (CabinFilter, error) {
	switch c := CabinFilter(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CabinAll, nil
	case CabinAll, CabinFilterEconomy, CabinFilterPremiumEconomy, CabinFilterBusiness, CabinFilterFirst:
		return c, nil
	}
	return "", ErrInvalidCabin
}

type SortKey string

const (
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortDurationAsc  SortKey = "duration_asc"
	SortDepartureAsc SortKey = "departure_asc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortPriceAsc, nil
	case SortPriceAsc, SortPriceDesc, SortDurationAsc, SortDepartureAsc:
		return k, nil
	}
	return "", ErrInvalidSortKey
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

const (
	DefaultPriceMax    = 5000
	DefaultDurationMax = 24
)

type FilterConfig struct {
	PriceRange       Range       `json:"price_range"`
	DirectOnly       bool        `json:"direct_only"`
	Stops            StopFilter  `json:"stop_filter"`
	Cabin            CabinFilter `json:"cabin_class"`
	MinBaggage       int         `json:"min_baggage"`
	DurationRange    Range       `json:"duration_range"`
	SelectedAirlines []string    `json:"selected_airlines"`
	SortBy           SortKey     `json:"sort_by"`
}

// DefaultFilterConfig is the reset state with the given airline selection.
func DefaultFilterConfig(airlines []string) FilterConfig {
	return FilterConfig{
		PriceRange:       Range{Min: 0, Max: DefaultPriceMax},
		Stops:            StopsAny,
		Cabin:            CabinAll,
		DurationRange:    Range{Min: 0, Max: DefaultDurationMax},
		SelectedAirlines: cloneStrings(airlines),
		SortBy:           SortPriceAsc,
	}
}

func (c FilterConfig) Clone() FilterConfig {
	c.SelectedAirlines = cloneStrings(c.SelectedAirlines)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
