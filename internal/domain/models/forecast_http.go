package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	StartDate string `query:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DateRange string `query:"date_range" json:"date_range"`
	Category  string `query:"category" json:"category"`
	Region    string `query:"region" json:"region"`
	Horizon   int    `query:"horizon" json:"horizon" default:"90" validate:"gte=1,lte=365"`
	Method    string `query:"method" json:"method"`
}

type SeasonalityRequest struct {
	StartDate string `query:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DateRange string `query:"date_range" json:"date_range"`
	Category  string `query:"category" json:"category"`
	Region    string `query:"region" json:"region"`
}
