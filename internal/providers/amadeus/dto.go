package amadeus

import (
	"encoding/json"
	"strings"

	"github.com/dharmasatrya/skyfare/internal/models"
)

type offersResponse struct {
	Data         json.RawMessage   `json:"data"`
	Dictionaries models.Dictionary `json:"dictionaries"`
}

// offers decodes the data array; anything other than an array yields no offers.
func (r offersResponse) offers() []models.FlightOffer {
	var out []models.FlightOffer
	if err := json.Unmarshal(r.Data, &out); err != nil || out == nil {
		return []models.FlightOffer{}
	}
	return out
}

type apiError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type errorResponse struct {
	Errors []apiError `json:"errors"`
}

func (r errorResponse) summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msg := e.Title
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		if msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}
