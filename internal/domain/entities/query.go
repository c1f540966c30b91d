package entities

// Cost filter values.
const (
	CostFree = "free"
	CostPaid = "paid"
)

// Time-of-day buckets, matching the front end's filter values.
const (
	TimeBefore6   = "before6"
	TimeMorning   = "morning"   // 06:00 - 12:00
	TimeAfternoon = "afternoon" // 12:00 - 18:00
	TimeAfter6    = "after6"
)

// Filters holds the structured filters extracted from a search query or
// supplied directly by the caller. Empty string means "not set".
type Filters struct {
	Cost      string `json:"cost,omitempty"`
	Category  string `json:"category,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	TimeOfDay string `json:"timeOfDay,omitempty"`
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f.Cost == "" && f.Category == "" && f.StartDate == "" &&
		f.EndDate == "" && f.TimeOfDay == ""
}

// ParsedQuery is the result of interpreting a raw user query: the residual
// free-text portion intended for similarity retrieval plus structured
// filters.
type ParsedQuery struct {
	SemanticQuery string  `json:"semanticQuery"`
	Filters       Filters `json:"filters"`
}
