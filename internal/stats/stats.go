package stats

import (
	"fmt"
	"math"

	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/pkg/currency"
)

const (
	DefaultChartLimit = 10
	unknownAirline    = "Unknown"
	emptyPrice        = "0"
)

// Aggregate summarises an already filtered offer list. Prices are rendered with
// two decimals; an empty list yields zero counts and "0" prices.
func Aggregate(offers []models.FlightOffer) models.Stats {
	if len(offers) == 0 {
		return models.Stats{
			MinPrice: emptyPrice,
			MaxPrice: emptyPrice,
			AvgPrice: emptyPrice,
		}
	}

	minPrice := math.Inf(1)
	maxPrice := math.Inf(-1)
	sum := 0.0
	direct := 0

	for _, o := range offers {
		p := o.PriceValue()
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
		sum += p
		if o.IsDirect() {
			direct++
		}
	}

	return models.Stats{
		Count:       len(offers),
		MinPrice:    currency.Fixed2(minPrice),
		MaxPrice:    currency.Fixed2(maxPrice),
		AvgPrice:    currency.Fixed2(sum / float64(len(offers))),
		DirectCount: direct,
	}
}

// ChartSeries projects the first limit offers into chart points. The lowest
// flag is computed over the charted slice only, so it marks the cheapest bar
// shown rather than the cheapest offer overall. Ties are all marked.
func ChartSeries(offers []models.FlightOffer, limit int) []models.ChartPoint {
	if limit <= 0 {
		limit = DefaultChartLimit
	}
	if len(offers) < limit {
		limit = len(offers)
	}

	points := make([]models.ChartPoint, limit)
	lowest := math.Inf(1)
	for i, o := range offers[:limit] {
		airline := o.PrimaryCarrier()
		if airline == "" {
			airline = unknownAirline
		}
		points[i] = models.ChartPoint{
			Label:   fmt.Sprintf("F%d", i+1),
			Price:   o.PriceValue(),
			Airline: airline,
			Stops:   o.Stops(),
		}
		if points[i].Price < lowest {
			lowest = points[i].Price
		}
	}

	for i := range points {
		points[i].Lowest = points[i].Price == lowest
	}

	return points
}

// PriceBounds returns [floor(min), ceil(max)] over the offers; ok is false for
// an empty list.
func PriceBounds(offers []models.FlightOffer) (models.Range, bool) {
	if len(offers) == 0 {
		return models.Range{}, false
	}

	minPrice := math.Inf(1)
	maxPrice := math.Inf(-1)
	for _, o := range offers {
		p := o.PriceValue()
		minPrice = math.Min(minPrice, p)
		maxPrice = math.Max(maxPrice, p)
	}

	return models.Range{Min: math.Floor(minPrice), Max: math.Ceil(maxPrice)}, true
}

// Airlines lists the distinct primary carriers in first-appearance order.
func Airlines(offers []models.FlightOffer) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, o := range offers {
		code := o.PrimaryCarrier()
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		result = append(result, code)
	}
	return result
}
