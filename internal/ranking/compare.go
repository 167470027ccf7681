package ranking

import (
	"cmp"
	"sort"
	"strings"

	"github.com/dharmasatrya/skyfare/internal/airports"
	"github.com/dharmasatrya/skyfare/internal/models"
)

// Compare orders two offers under key, returning -1, 0 or 1. Unknown keys
// treat every pair as equal.
//
// duration_asc compares the raw duration strings, so "PT10H" sorts before
// "PT9H". Callers relying on numeric duration order should filter instead.
func Compare(a, b models.FlightOffer, key models.SortKey) int {
	switch key {
	case models.SortPriceAsc:
		return cmp.Compare(a.PriceValue(), b.PriceValue())
	case models.SortPriceDesc:
		return cmp.Compare(b.PriceValue(), a.PriceValue())
	case models.SortDurationAsc:
		return strings.Compare(a.DurationText(), b.DurationText())
	case models.SortDepartureAsc:
		return cmp.Compare(departureMillis(a), departureMillis(b))
	default:
		return 0
	}
}

// Sort returns a stably sorted copy; equal keys keep their input order.
func Sort(offers []models.FlightOffer, key models.SortKey) []models.FlightOffer {
	sorted := make([]models.FlightOffer, len(offers))
	copy(sorted, offers)

	if len(sorted) <= 1 {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j], key) < 0
	})

	return sorted
}

// departureMillis is the first segment's departure in epoch milliseconds;
// unparsable times count as the epoch.
func departureMillis(o models.FlightOffer) int64 {
	segs := o.Segments()
	if len(segs) == 0 {
		return 0
	}
	t, err := airports.ParseTimestamp(segs[0].Departure.At, segs[0].Departure.IATACode)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
