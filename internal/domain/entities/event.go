package entities

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single event from the source dataset. Events are
// immutable once loaded; every search returns references to the same
// underlying records.
type Event struct {
	ID               string `json:"id"`
	Name             string `json:"event_name"`
	Summary          string `json:"event_summary"`
	Description      string `json:"event_description"`
	Category         string `json:"event_category"`
	PriceCents       int    `json:"price_cents"`
	StartDate        string `json:"start_date"`
	StartTime        string `json:"start_time"`
	EndDate          string `json:"end_date"`
	EndTime          string `json:"end_time"`
	Region           string `json:"region"`
	PresentedBy      string `json:"presented_by_name,omitempty"`
	FullAddress      string `json:"full_address,omitempty"`
	StartDatetimeUTC string `json:"start_datetime_utc,omitempty"`
	EndDatetimeUTC   string `json:"end_datetime_utc,omitempty"`
}

// IsFree reports whether the event costs nothing. Missing prices are
// normalized to 0 at ingestion, so 0 always means free.
func (e *Event) IsFree() bool {
	return e.PriceCents <= 0
}

// PriceLabel returns the human-readable price ("Free" or "$12.50").
func (e *Event) PriceLabel() string {
	if e.PriceCents <= 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", float64(e.PriceCents)/100)
}

// SearchText builds the lowercase haystack used by keyword scoring. Field
// order matters: name, summary, category, price label, description.
func (e *Event) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		e.Name, e.Summary, e.Category, e.PriceLabel(), e.Description,
	}, " "))
}

// dateLayouts covers the date shapes observed in the source dataset.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"January 2, 2006",
	"01/02/2006",
}

// ParsedStartDate parses the event's start date. The second return value is
// false when the date is absent or unparsable.
func (e *Event) ParsedStartDate() (time.Time, bool) {
	raw := strings.TrimSpace(e.StartDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartMinutes parses the event's local start time into minutes since
// midnight. Both 12-hour ("8:30 PM") and 24-hour ("20:30") forms are
// accepted. The second return value is false when the time is absent or
// unparsable.
func (e *Event) StartMinutes() (int, bool) {
	return ParseClockMinutes(e.StartTime)
}

// ParseClockMinutes converts a wall-clock string into minutes since
// midnight.
func ParseClockMinutes(clock string) (int, bool) {
	raw := strings.TrimSpace(clock)
	if raw == "" {
		return 0, false
	}

	meridiem := ""
	upper := strings.ToUpper(raw)
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			raw = strings.TrimSpace(raw[:len(raw)-len(suffix)])
			break
		}
	}

	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := parseClockInt(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := parseClockInt(parts[1])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}

	switch meridiem {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	return hour*60 + minute, true
}

func parseClockInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty clock component")
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid clock component %q", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
