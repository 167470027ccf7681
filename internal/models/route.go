package models

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Route is the network-facing part of a search: it triggers refetches.
type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"departure_date"`
}

func (r Route) Normalize() Route {
	return Route{
		Origin:      strings.ToUpper(strings.TrimSpace(r.Origin)),
		Destination: strings.ToUpper(strings.TrimSpace(r.Destination)),
		Date:        strings.TrimSpace(r.Date),
	}
}

func (r Route) Swapped() Route {
	return Route{Origin: r.Destination, Destination: r.Origin, Date: r.Date}
}

// Complete reports whether every field needed for a fetch is present.
func (r Route) Complete() bool {
	return r.Origin != "" && r.Destination != "" && r.Date != ""
}

func (r Route) SameEndpoints() bool {
	return strings.EqualFold(r.Origin, r.Destination)
}

func (r Route) Validate() error {
	if r.Origin == "" {
		return ErrMissingOrigin
	}
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.Date == "" {
		return ErrMissingDepartureDate
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDepartureDate
	}
	if r.SameEndpoints() {
		return ErrInvalidRoute
	}
	return nil
}
