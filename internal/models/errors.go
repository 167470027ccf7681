package models

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin        ValidationError = "origin is required"
	ErrMissingDestination   ValidationError = "destination is required"
	ErrMissingDepartureDate ValidationError = "departure_date is required"
	ErrInvalidDepartureDate ValidationError = "departure_date must be YYYY-MM-DD"
	ErrInvalidRoute         ValidationError = "Origin and Destination cannot be the same."
	ErrUnknownAirport       ValidationError = "airport is not in the supported list"
	ErrInvalidStopFilter    ValidationError = "stop_filter must be one of any, direct, one_stop_max, two_stops_max"
	ErrInvalidCabin         ValidationError = "cabin_class must be one of all, economy, premium_economy, business, first"
	ErrInvalidSortKey       ValidationError = "sort_by must be one of price_asc, price_desc, duration_asc, departure_asc"
	ErrInvalidBaggage       ValidationError = "min_baggage must not be negative"
	ErrInvalidRange         ValidationError = "range minimum must not exceed maximum"
)

// FetchFailureMessage is the single user-facing message for any upstream failure.
const FetchFailureMessage = "Failed to fetch flights. Please try again."
