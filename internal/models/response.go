package models

type Stats struct {
	Count       int    `json:"count"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	AvgPrice    string `json:"avg_price"`
	DirectCount int    `json:"direct_count"`
}

type ChartPoint struct {
	Label   string  `json:"label"`
	Price   float64 `json:"price"`
	Airline string  `json:"airline"`
	Stops   int     `json:"stops"`
	Lowest  bool    `json:"lowest"`
}

// OfferCard is the display projection of one offer.
type OfferCard struct {
	ID            string `json:"id"`
	AirlineCode   string `json:"airline_code"`
	AirlineName   string `json:"airline_name"`
	Cabin         string `json:"cabin"`
	CheckedBags   int    `json:"checked_bags"`
	Stops         int    `json:"stops"`
	StopsLabel    string `json:"stops_label"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"`
	Price         string `json:"price"`
	Bookmarked    bool   `json:"bookmarked"`
}

// ViewModel is derived purely from offers, dictionary and filter config.
type ViewModel struct {
	Offers []FlightOffer `json:"offers"`
	Cards  []OfferCard   `json:"cards"`
	Stats  Stats         `json:"stats"`
	Chart  []ChartPoint  `json:"chart"`
}

type SearchMetadata struct {
	TotalResults int   `json:"total_results"`
	RawResults   int   `json:"raw_results"`
	SearchTimeMs int64 `json:"search_time_ms"`
	CacheHit     bool  `json:"cache_hit"`
}

type SearchResponse struct {
	SearchCriteria Route          `json:"search_criteria"`
	Filters        FilterConfig   `json:"filters"`
	Metadata       SearchMetadata `json:"metadata"`
	View           ViewModel      `json:"view"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
