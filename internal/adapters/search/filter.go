package search

import (
	"strings"
	"time"

	"github.com/eventseekr/backend/internal/domain/entities"
)

// Apply narrows events to those passing every set filter. It is pure and
// order-preserving: the returned slice holds the surviving events in their
// original order.
func Apply(events []entities.Event, filters entities.Filters) []entities.Event {
	if filters.Empty() {
		return events
	}

	out := make([]entities.Event, 0, len(events))
	for _, event := range events {
		if matchesCategory(&event, filters.Category) &&
			matchesCost(&event, filters.Cost) &&
			matchesDateRange(&event, filters.StartDate, filters.EndDate) &&
			matchesTimeOfDay(&event, filters.TimeOfDay) {
			out = append(out, event)
		}
	}
	return out
}

// matchesCategory uses bidirectional substring containment so that a filter
// of "Tech" matches the category "Tech & AI" and vice versa. The loose
// matching is intentional; callers depend on it.
func matchesCategory(event *entities.Event, category string) bool {
	if category == "" {
		return true
	}
	eventCategory := strings.ToLower(event.Category)
	filterCategory := strings.ToLower(category)
	return strings.Contains(eventCategory, filterCategory) ||
		strings.Contains(filterCategory, eventCategory)
}

func matchesCost(event *entities.Event, cost string) bool {
	switch cost {
	case entities.CostFree:
		return event.PriceCents <= 0
	case entities.CostPaid:
		return event.PriceCents > 0
	default:
		return true
	}
}

// matchesDateRange excludes events outside [startDate, endDate]. An event
// whose own date cannot be parsed fails any active bound. An unparsable
// bound is ignored.
func matchesDateRange(event *entities.Event, startDate, endDate string) bool {
	if startDate == "" && endDate == "" {
		return true
	}

	eventDate, ok := event.ParsedStartDate()
	if !ok {
		return false
	}

	if start, valid := parseBound(startDate); valid && eventDate.Before(start) {
		return false
	}
	if end, valid := parseBound(endDate); valid && eventDate.After(end) {
		return false
	}
	return true
}

func parseBound(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// matchesTimeOfDay tests bucket membership over minutes since midnight.
// Events without a parsable start time fail every bucket.
func matchesTimeOfDay(event *entities.Event, bucket string) bool {
	if bucket == "" {
		return true
	}

	minutes, ok := event.StartMinutes()
	if !ok {
		return false
	}

	switch bucket {
	case entities.TimeBefore6:
		return minutes < 6*60
	case entities.TimeMorning:
		return minutes >= 6*60 && minutes < 12*60
	case entities.TimeAfternoon:
		return minutes >= 12*60 && minutes < 18*60
	case entities.TimeAfter6:
		return minutes >= 18*60
	default:
		return true
	}
}
