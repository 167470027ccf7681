// Package modeltest builds flight offers for tests.
package modeltest

import (
	"fmt"

	"github.com/dharmasatrya/skyfare/internal/models"
)

type Option func(*models.FlightOffer)

// Offer returns a direct AF economy offer CDG-DAC with one checked bag, a two
// hour duration and the given price.
func Offer(id, price string, opts ...Option) models.FlightOffer {
	o := models.FlightOffer{
		Type: "flight-offer",
		ID:   id,
		Itineraries: []models.Itinerary{{
			Duration: "PT2H",
			Segments: []models.Segment{segment(0, "CDG", "DAC", "2026-05-15T10:00:00", "2026-05-15T12:00:00", "AF")},
		}},
		Price:                  models.Price{Currency: "USD", Total: price},
		ValidatingAirlineCodes: []string{"AF"},
		TravelerPricings: []models.TravelerPricing{{
			TravelerID: "1",
			FareDetailsBySegment: []models.FareDetail{{
				SegmentID:           "1",
				Cabin:               models.CabinEconomy,
				IncludedCheckedBags: &models.CheckedBags{Quantity: 1},
			}},
		}},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func segment(i int, from, to, dep, arr, carrier string) models.Segment {
	return models.Segment{
		ID:          fmt.Sprintf("%d", i+1),
		Departure:   models.Endpoint{IATACode: from, At: dep},
		Arrival:     models.Endpoint{IATACode: to, At: arr},
		CarrierCode: carrier,
		Number:      fmt.Sprintf("%d", 100+i),
		Aircraft:    models.AircraftRef{Code: "320"},
	}
}

func WithCarrier(code string) Option {
	return func(o *models.FlightOffer) {
		o.ValidatingAirlineCodes = []string{code}
		for i := range o.Itineraries[0].Segments {
			o.Itineraries[0].Segments[i].CarrierCode = code
		}
	}
}

func WithoutCarrier() Option {
	return func(o *models.FlightOffer) {
		o.ValidatingAirlineCodes = nil
	}
}

// WithSegments replaces the first itinerary with n chained segments.
func WithSegments(n int) Option {
	return func(o *models.FlightOffer) {
		carrier := o.PrimaryCarrier()
		dep := o.DepartureAt()
		segs := make([]models.Segment, n)
		for i := range segs {
			from, to := fmt.Sprintf("X%02d", i), fmt.Sprintf("X%02d", i+1)
			if i == 0 {
				from = "CDG"
			}
			if i == n-1 {
				to = "DAC"
			}
			segs[i] = segment(i, from, to, dep, dep, carrier)
		}
		o.Itineraries[0].Segments = segs
	}
}

func WithDuration(d string) Option {
	return func(o *models.FlightOffer) {
		o.Itineraries[0].Duration = d
	}
}

func WithDeparture(at string) Option {
	return func(o *models.FlightOffer) {
		o.Itineraries[0].Segments[0].Departure.At = at
	}
}

func WithCabin(cabin string) Option {
	return func(o *models.FlightOffer) {
		o.TravelerPricings[0].FareDetailsBySegment[0].Cabin = cabin
	}
}

func WithBags(n int) Option {
	return func(o *models.FlightOffer) {
		o.TravelerPricings[0].FareDetailsBySegment[0].IncludedCheckedBags = &models.CheckedBags{Quantity: n}
	}
}

func WithoutTravelerPricing() Option {
	return func(o *models.FlightOffer) {
		o.TravelerPricings = nil
	}
}

func IDs(offers []models.FlightOffer) []string {
	ids := make([]string, len(offers))
	for i, o := range offers {
		ids[i] = o.ID
	}
	return ids
}
