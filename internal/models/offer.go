package models

import (
	"github.com/dharmasatrya/skyfare/pkg/parse"
)

const (
	CabinEconomy        = "ECONOMY"
	CabinPremiumEconomy = "PREMIUM_ECONOMY"
	CabinBusiness       = "BUSINESS"
	CabinFirst          = "FIRST"

	defaultDuration = "PT0H"
)

type Endpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type AircraftRef struct {
	Code string `json:"code"`
}

type Segment struct {
	ID            string      `json:"id,omitempty"`
	Departure     Endpoint    `json:"departure"`
	Arrival       Endpoint    `json:"arrival"`
	CarrierCode   string      `json:"carrierCode"`
	Number        string      `json:"number,omitempty"`
	Aircraft      AircraftRef `json:"aircraft"`
	Duration      string      `json:"duration,omitempty"`
	NumberOfStops int         `json:"numberOfStops"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Price struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	Base       string `json:"base,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

type CheckedBags struct {
	Quantity   int    `json:"quantity"`
	Weight     int    `json:"weight,omitempty"`
	WeightUnit string `json:"weightUnit,omitempty"`
}

type FareDetail struct {
	SegmentID           string       `json:"segmentId,omitempty"`
	Cabin               string       `json:"cabin"`
	FareBasis           string       `json:"fareBasis,omitempty"`
	Class               string       `json:"class,omitempty"`
	IncludedCheckedBags *CheckedBags `json:"includedCheckedBags,omitempty"`
}

type TravelerPricing struct {
	TravelerID           string       `json:"travelerId,omitempty"`
	FareOption           string       `json:"fareOption,omitempty"`
	TravelerType         string       `json:"travelerType,omitempty"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment"`
}

// FlightOffer is one priced itinerary option as returned upstream. Offers are
// treated as immutable once fetched; only the first itinerary is consulted.
type FlightOffer struct {
	Type                   string            `json:"type,omitempty"`
	ID                     string            `json:"id"`
	Source                 string            `json:"source,omitempty"`
	NumberOfBookableSeats  int               `json:"numberOfBookableSeats,omitempty"`
	Itineraries            []Itinerary       `json:"itineraries"`
	Price                  Price             `json:"price"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes"`
	TravelerPricings       []TravelerPricing `json:"travelerPricings"`
}

// PriceValue is the total price, 0 when missing or malformed.
func (o FlightOffer) PriceValue() float64 {
	return parse.PriceOrZero(o.Price.Total)
}

func (o FlightOffer) Segments() []Segment {
	if len(o.Itineraries) == 0 {
		return nil
	}
	return o.Itineraries[0].Segments
}

func (o FlightOffer) SegmentCount() int {
	return len(o.Segments())
}

func (o FlightOffer) IsDirect() bool {
	return o.SegmentCount() == 1
}

func (o FlightOffer) Stops() int {
	if n := o.SegmentCount(); n > 1 {
		return n - 1
	}
	return 0
}

// DurationText is the raw duration of the first itinerary, "PT0H" when absent.
func (o FlightOffer) DurationText() string {
	if len(o.Itineraries) == 0 || o.Itineraries[0].Duration == "" {
		return defaultDuration
	}
	return o.Itineraries[0].Duration
}

func (o FlightOffer) DurationHours() float64 {
	return parse.DurationHoursOrZero(o.DurationText())
}

// PrimaryCarrier is the first validating airline code, "" when none.
func (o FlightOffer) PrimaryCarrier() string {
	if len(o.ValidatingAirlineCodes) == 0 {
		return ""
	}
	return o.ValidatingAirlineCodes[0]
}

func (o FlightOffer) firstFare() (FareDetail, bool) {
	if len(o.TravelerPricings) == 0 || len(o.TravelerPricings[0].FareDetailsBySegment) == 0 {
		return FareDetail{}, false
	}
	return o.TravelerPricings[0].FareDetailsBySegment[0], true
}

// Cabin of the first traveler's first segment; ECONOMY when absent.
func (o FlightOffer) Cabin() string {
	fare, ok := o.firstFare()
	if !ok || fare.Cabin == "" {
		return CabinEconomy
	}
	return fare.Cabin
}

// CheckedBags of the first traveler's first segment; 0 when absent.
func (o FlightOffer) CheckedBags() int {
	fare, ok := o.firstFare()
	if !ok || fare.IncludedCheckedBags == nil {
		return 0
	}
	return fare.IncludedCheckedBags.Quantity
}

// DepartureAt is the raw departure timestamp of the first segment.
func (o FlightOffer) DepartureAt() string {
	segs := o.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[0].Departure.At
}

// ArrivalAt is the raw arrival timestamp of the last segment.
func (o FlightOffer) ArrivalAt() string {
	segs := o.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1].Arrival.At
}

type LocationInfo struct {
	CityCode    string `json:"cityCode"`
	CountryCode string `json:"countryCode"`
}

// Dictionary maps upstream codes to display names.
type Dictionary struct {
	Carriers   map[string]string       `json:"carriers,omitempty"`
	Aircraft   map[string]string       `json:"aircraft,omitempty"`
	Currencies map[string]string       `json:"currencies,omitempty"`
	Locations  map[string]LocationInfo `json:"locations,omitempty"`
}

// CarrierName falls back to the code itself.
func (d Dictionary) CarrierName(code string) string {
	if name, ok := d.Carriers[code]; ok && name != "" {
		return name
	}
	return code
}

func (d Dictionary) AircraftName(code string) string {
	if name, ok := d.Aircraft[code]; ok && name != "" {
		return name
	}
	return code
}

// OfferResult is what an offer source returns for one route and date.
type OfferResult struct {
	Offers     []FlightOffer `json:"offers"`
	Dictionary Dictionary    `json:"dictionary"`
	FromCache  bool          `json:"-"`
}
