package search

import (
	"strconv"

	"github.com/dharmasatrya/skyfare/internal/airports"
	"github.com/dharmasatrya/skyfare/internal/filter"
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/stats"
	"github.com/dharmasatrya/skyfare/pkg/currency"
)

// BuildView runs the filter, sort and aggregation pipeline. It is a pure
// function of its inputs.
func BuildView(offers []models.FlightOffer, dict models.Dictionary, cfg models.FilterConfig, bookmarks map[string]struct{}, chartLimit int) models.ViewModel {
	processed := filter.Apply(offers, cfg)

	return models.ViewModel{
		Offers: processed,
		Cards:  Cards(processed, dict, bookmarks),
		Stats:  stats.Aggregate(processed),
		Chart:  stats.ChartSeries(processed, chartLimit),
	}
}

func Cards(offers []models.FlightOffer, dict models.Dictionary, bookmarks map[string]struct{}) []models.OfferCard {
	cards := make([]models.OfferCard, 0, len(offers))
	for _, o := range offers {
		_, marked := bookmarks[o.ID]
		cards = append(cards, Card(o, dict, marked))
	}
	return cards
}

func Card(o models.FlightOffer, dict models.Dictionary, bookmarked bool) models.OfferCard {
	code := o.PrimaryCarrier()
	card := models.OfferCard{
		ID:          o.ID,
		AirlineCode: code,
		AirlineName: dict.CarrierName(code),
		Cabin:       o.Cabin(),
		CheckedBags: o.CheckedBags(),
		Stops:       o.Stops(),
		StopsLabel:  stopsLabel(o),
		Duration:    o.DurationText(),
		Price:       currency.Format(o.PriceValue(), o.Price.Currency),
		Bookmarked:  bookmarked,
	}

	if segs := o.Segments(); len(segs) > 0 {
		first, last := segs[0], segs[len(segs)-1]
		card.Origin = first.Departure.IATACode
		card.Destination = last.Arrival.IATACode
		card.DepartureTime = airports.ClockTime(first.Departure.At, first.Departure.IATACode)
		card.ArrivalTime = airports.ClockTime(last.Arrival.At, last.Arrival.IATACode)
	}
	return card
}

func stopsLabel(o models.FlightOffer) string {
	if o.SegmentCount() <= 1 {
		return "Direct"
	}
	return strconv.Itoa(o.Stops()) + " stop"
}
