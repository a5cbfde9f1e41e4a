package models

// Requests for the sentiment HTTP endpoints. Defined in domain for consistency and reuse.

type CurrentRequest struct {
	// Absent means "use the configured query window"; the handler also
	// caps explicit values at that window.
	MaxAgeMin int `query:"max_age" json:"max_age" validate:"omitempty,gte=1,lte=1440"`
}

type HistoryRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=0,lte=3650"`
}

type StatsRequest struct {
	Start string `query:"start" json:"start" validate:"required"`
	End   string `query:"end" json:"end" validate:"required"`
}
