package models

// FilterUpdate is a partial FilterConfig change; nil fields are left untouched.
type FilterUpdate struct {
	PriceMin    *float64  `json:"price_min,omitempty"`
	PriceMax    *float64  `json:"price_max,omitempty"`
	DirectOnly  *bool     `json:"direct_only,omitempty"`
	StopFilter  *string   `json:"stop_filter,omitempty"`
	CabinClass  *string   `json:"cabin_class,omitempty"`
	MinBaggage  *int      `json:"min_baggage,omitempty"`
	DurationMin *float64  `json:"duration_min,omitempty"`
	DurationMax *float64  `json:"duration_max,omitempty"`
	Airlines    *[]string `json:"airlines,omitempty"`
	SortBy      *string   `json:"sort_by,omitempty"`
}

// Apply returns cfg with the update merged in. cfg itself is not modified.
func (u FilterUpdate) Apply(cfg FilterConfig) (FilterConfig, error) {
	out := cfg.Clone()

	if u.PriceMin != nil {
		out.PriceRange.Min = *u.PriceMin
	}
	if u.PriceMax != nil {
		out.PriceRange.Max = *u.PriceMax
	}
	if out.PriceRange.Min > out.PriceRange.Max {
		return cfg, ErrInvalidRange
	}

	if u.DirectOnly != nil {
		out.DirectOnly = *u.DirectOnly
	}

	if u.StopFilter != nil {
		s, err := ParseStopFilter(*u.StopFilter)
		if err != nil {
			return cfg, err
		}
		out.Stops = s
	}

	if u.CabinClass != nil {
		c, err := ParseCabinFilter(*u.CabinClass)
		if err != nil {
			return cfg, err
		}
		out.Cabin = c
	}

	if u.MinBaggage != nil {
		if *u.MinBaggage < 0 {
			return cfg, ErrInvalidBaggage
		}
		out.MinBaggage = *u.MinBaggage
	}

	if u.DurationMin != nil {
		out.DurationRange.Min = *u.DurationMin
	}
	if u.DurationMax != nil {
		out.DurationRange.Max = *u.DurationMax
	}
	if out.DurationRange.Min > out.DurationRange.Max {
		return cfg, ErrInvalidRange
	}

	if u.Airlines != nil {
		out.SelectedAirlines = cloneStrings(*u.Airlines)
	}

	if u.SortBy != nil {
		k, err := ParseSortKey(*u.SortBy)
		if err != nil {
			return cfg, err
		}
		out.SortBy = k
	}

	return out, nil
}

// SearchRequest is the body of a one-shot search.
type SearchRequest struct {
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureDate string        `json:"departure_date"`
	Filters       *FilterUpdate `json:"filters,omitempty"`
	SortBy        string        `json:"sort_by,omitempty"`
}

func (r *SearchRequest) Route() Route {
	return Route{Origin: r.Origin, Destination: r.Destination, Date: r.DepartureDate}.Normalize()
}

func (r *SearchRequest) Validate() error {
	route := r.Route()
	if err := route.Validate(); err != nil {
		return err
	}
	if r.SortBy != "" {
		if _, err := ParseSortKey(r.SortBy); err != nil {
			return err
		}
	}
	return nil
}

// RouteUpdate is a partial route change for a session.
type RouteUpdate struct {
	Origin        *string `json:"origin,omitempty"`
	Destination   *string `json:"destination,omitempty"`
	DepartureDate *string `json:"departure_date,omitempty"`
}

func (u RouteUpdate) Apply(r Route) Route {
	if u.Origin != nil {
		r.Origin = *u.Origin
	}
	if u.Destination != nil {
		r.Destination = *u.Destination
	}
	if u.DepartureDate != nil {
		r.Date = *u.DepartureDate
	}
	return r.Normalize()
}
