package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/models/modeltest"
)

func TestFlightOffer_AccessorDefaults(t *testing.T) {
	var o models.FlightOffer

	assert.Equal(t, 0.0, o.PriceValue())
	assert.Equal(t, 0, o.SegmentCount())
	assert.Equal(t, 0, o.Stops())
	assert.Equal(t, "PT0H", o.DurationText())
	assert.Equal(t, 0.0, o.DurationHours())
	assert.Equal(t, "", o.PrimaryCarrier())
	assert.Equal(t, models.CabinEconomy, o.Cabin())
	assert.Equal(t, 0, o.CheckedBags())
	assert.Equal(t, "", o.DepartureAt())
	assert.Equal(t, "", o.ArrivalAt())
}

func TestFlightOffer_Accessors(t *testing.T) {
	o := modeltest.Offer("1", "612.40",
		modeltest.WithCarrier("EK"),
		modeltest.WithSegments(3),
		modeltest.WithDuration("PT13H30M"),
		modeltest.WithCabin(models.CabinBusiness),
		modeltest.WithBags(2),
	)

	assert.InDelta(t, 612.40, o.PriceValue(), 1e-9)
	assert.Equal(t, 3, o.SegmentCount())
	assert.False(t, o.IsDirect())
	assert.Equal(t, 2, o.Stops())
	assert.Equal(t, 13.5, o.DurationHours())
	assert.Equal(t, "EK", o.PrimaryCarrier())
	assert.Equal(t, models.CabinBusiness, o.Cabin())
	assert.Equal(t, 2, o.CheckedBags())
}

func TestFlightOffer_DecodesUpstreamShape(t *testing.T) {
	raw := `{
		"id": "7",
		"itineraries": [{"duration": "PT2H30M", "segments": [
			{"departure": {"iataCode": "CDG", "at": "2026-05-15T10:00:00"}, "arrival": {"iataCode": "LHR", "at": "2026-05-15T10:30:00"}, "carrierCode": "AF"}
		]}],
		"price": {"currency": "EUR", "total": "not-a-number"},
		"validatingAirlineCodes": ["AF"],
		"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "FIRST"}]}]
	}`
	var o models.FlightOffer
	require.NoError(t, json.Unmarshal([]byte(raw), &o))

	assert.Equal(t, 0.0, o.PriceValue())
	assert.Equal(t, 2.5, o.DurationHours())
	assert.True(t, o.IsDirect())
	assert.Equal(t, models.CabinFirst, o.Cabin())
	assert.Equal(t, 0, o.CheckedBags())
	assert.Equal(t, "2026-05-15T10:30:00", o.ArrivalAt())
}

func TestDictionary_FallsBackToCode(t *testing.T) {
	d := models.Dictionary{Carriers: map[string]string{"AF": "AIR FRANCE", "XX": ""}}

	assert.Equal(t, "AIR FRANCE", d.CarrierName("AF"))
	assert.Equal(t, "EK", d.CarrierName("EK"))
	assert.Equal(t, "XX", d.CarrierName("XX"))
	assert.Equal(t, "320", models.Dictionary{}.AircraftName("320"))
}

func TestParseStopFilter(t *testing.T) {
	cases := map[string]models.StopFilter{
		"":              models.StopsAny,
		"any":           models.StopsAny,
		"Non-stop":      models.StopsDirect,
		"direct":        models.StopsDirect,
		"1":             models.StopsOneStopMax,
		"two_stops_max": models.StopsTwoStopsMax,
	}
	for in, want := range cases {
		got, err := models.ParseStopFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := models.ParseStopFilter("3")
	assert.ErrorIs(t, err, models.ErrInvalidStopFilter)
}

func TestStopFilter_MaxSegments(t *testing.T) {
	_, ok := models.StopsAny.MaxSegments()
	assert.False(t, ok)

	n, ok := models.StopsTwoStopsMax.MaxSegments()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestCabinFilter(t *testing.T) {
	c, err := models.ParseCabinFilter("Premium_Economy")
	require.NoError(t, err)
	assert.True(t, c.Matches(models.CabinPremiumEconomy))
	assert.False(t, c.Matches(models.CabinEconomy))
	assert.True(t, models.CabinAll.Matches(models.CabinFirst))

	_, err = models.ParseCabinFilter("lounge")
	assert.ErrorIs(t, err, models.ErrInvalidCabin)
}

func TestRoute_Validate(t *testing.T) {
	cases := []struct {
		name  string
		route models.Route
		want  error
	}{
		{"ok", models.Route{Origin: "CDG", Destination: "DAC", Date: "2026-05-15"}, nil},
		{"missing origin", models.Route{Destination: "DAC", Date: "2026-05-15"}, models.ErrMissingOrigin},
		{"missing destination", models.Route{Origin: "CDG", Date: "2026-05-15"}, models.ErrMissingDestination},
		{"missing date", models.Route{Origin: "CDG", Destination: "DAC"}, models.ErrMissingDepartureDate},
		{"bad date", models.Route{Origin: "CDG", Destination: "DAC", Date: "2026-13-01"}, models.ErrInvalidDepartureDate},
		{"same endpoints", models.Route{Origin: "CDG", Destination: "cdg", Date: "2026-05-15"}, models.ErrInvalidRoute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.route.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRoute_NormalizeAndSwap(t *testing.T) {
	r := models.Route{Origin: " cdg ", Destination: "dac", Date: " 2026-05-15"}.Normalize()
	assert.Equal(t, models.Route{Origin: "CDG", Destination: "DAC", Date: "2026-05-15"}, r)
	assert.Equal(t, models.Route{Origin: "DAC", Destination: "CDG", Date: "2026-05-15"}, r.Swapped())
	assert.True(t, r.Complete())
	assert.False(t, models.Route{Origin: "CDG"}.Complete())
}

func TestRouteUpdate_Apply(t *testing.T) {
	dest := "dxb"
	r := models.RouteUpdate{Destination: &dest}.Apply(models.Route{Origin: "CDG", Destination: "DAC", Date: "2026-05-15"})
	assert.Equal(t, models.Route{Origin: "CDG", Destination: "DXB", Date: "2026-05-15"}, r)
}

func TestFilterUpdate_Apply(t *testing.T) {
	base := models.DefaultFilterConfig([]string{"AF", "EK"})

	lo, hi := 100.0, 900.0
	direct := true
	stops := "1"
	cabin := "business"
	bags := 1
	airlines := []string{"AF"}
	sortBy := "departure_asc"
	got, err := models.FilterUpdate{
		PriceMin:   &lo,
		PriceMax:   &hi,
		DirectOnly: &direct,
		StopFilter: &stops,
		CabinClass: &cabin,
		MinBaggage: &bags,
		Airlines:   &airlines,
		SortBy:     &sortBy,
	}.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, models.Range{Min: 100, Max: 900}, got.PriceRange)
	assert.True(t, got.DirectOnly)
	assert.Equal(t, models.StopsOneStopMax, got.Stops)
	assert.Equal(t, models.CabinFilterBusiness, got.Cabin)
	assert.Equal(t, 1, got.MinBaggage)
	assert.Equal(t, []string{"AF"}, got.SelectedAirlines)
	assert.Equal(t, models.SortDepartureAsc, got.SortBy)
	assert.Equal(t, models.Range{Min: 0, Max: 24}, got.DurationRange)

	airlines[0] = "ZZ"
	assert.Equal(t, []string{"AF"}, got.SelectedAirlines)
	assert.Equal(t, []string{"AF", "EK"}, base.SelectedAirlines)
}

func TestFilterUpdate_ApplyRejectsInvalid(t *testing.T) {
	base := models.DefaultFilterConfig(nil)

	tooHigh := 6000.0
	negative := -1
	badSort := "fastest"
	cases := map[string]struct {
		update models.FilterUpdate
		want   error
	}{
		"inverted price": {models.FilterUpdate{PriceMin: &tooHigh}, models.ErrInvalidRange},
		"negative bags":  {models.FilterUpdate{MinBaggage: &negative}, models.ErrInvalidBaggage},
		"bad sort":       {models.FilterUpdate{SortBy: &badSort}, models.ErrInvalidSortKey},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := tc.update.Apply(base)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, base, got)
		})
	}
}

func TestSearchRequest_Validate(t *testing.T) {
	req := models.SearchRequest{Origin: "cdg", Destination: "dac", DepartureDate: "2026-05-15", SortBy: "price_desc"}
	require.NoError(t, req.Validate())
	assert.Equal(t, models.Route{Origin: "CDG", Destination: "DAC", Date: "2026-05-15"}, req.Route())

	req.SortBy = "cheapest"
	assert.ErrorIs(t, req.Validate(), models.ErrInvalidSortKey)
}
