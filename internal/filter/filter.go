package filter

import (
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/ranking"
)

// Apply filters offers by cfg and sorts the survivors by cfg.SortBy.
// The input slice is left untouched.
func Apply(offers []models.FlightOffer, cfg models.FilterConfig) []models.FlightOffer {
	filtered := applyFilters(offers, cfg)
	return ranking.Sort(filtered, cfg.SortBy)
}

// Passes reports whether a single offer satisfies every active filter.
func Passes(offer models.FlightOffer, cfg models.FilterConfig) bool {
	return newFilterContext(cfg).matches(offer)
}

// filterContext holds the airline set so it is built once per pass.
type filterContext struct {
	cfg      models.FilterConfig
	airlines map[string]struct{}
}

func newFilterContext(cfg models.FilterConfig) *filterContext {
	fc := &filterContext{cfg: cfg}
	if len(cfg.SelectedAirlines) > 0 {
		fc.airlines = make(map[string]struct{}, len(cfg.SelectedAirlines))
		for _, code := range cfg.SelectedAirlines {
			fc.airlines[code] = struct{}{}
		}
	}
	return fc
}

func applyFilters(offers []models.FlightOffer, cfg models.FilterConfig) []models.FlightOffer {
	fc := newFilterContext(cfg)
	result := make([]models.FlightOffer, 0, len(offers))

	for _, o := range offers {
		if fc.matches(o) {
			result = append(result, o)
		}
	}

	return result
}

func (fc *filterContext) matches(o models.FlightOffer) bool {
	if !fc.cfg.PriceRange.Contains(o.PriceValue()) {
		return false
	}

	segments := o.SegmentCount()
	if fc.cfg.DirectOnly && segments != 1 {
		return false
	}

	if max, ok := fc.cfg.Stops.MaxSegments(); ok && segments > max {
		return false
	}

	// An empty selection means no airline restriction.
	if fc.airlines != nil {
		if _, ok := fc.airlines[o.PrimaryCarrier()]; !ok {
			return false
		}
	}

	if !fc.cfg.DurationRange.Contains(o.DurationHours()) {
		return false
	}

	if !fc.cfg.Cabin.Matches(o.Cabin()) {
		return false
	}

	if o.CheckedBags() < fc.cfg.MinBaggage {
		return false
	}

	return true
}
