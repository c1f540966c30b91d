package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventseekr/backend/internal/domain/entities"
)

// The dataset is authored in India Standard Time. There is no per-event
// timezone column, so the +05:30 interpretation applies to every row.
var istLocation = time.FixedZone("IST", 5*3600+30*60)

// CSVSource loads the event list from the dataset CSV. It implements
// providers.EventSource.
type CSVSource struct {
	path string
}

// NewCSVSource creates an event source reading from path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load parses the CSV into event records. Rows are identified by
// "{rowIndex}-{eventName}" in ingestion order. A read or parse failure is
// fatal to the caller; the service cannot start without its dataset.
func (s *CSVSource) Load(ctx context.Context) ([]entities.Event, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse events csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("events csv is empty")
	}

	columns := make(map[string]int, len(records[0]))
	for i, header := range records[0] {
		columns[strings.TrimSpace(header)] = i
	}

	events := make([]entities.Event, 0, len(records)-1)
	for _, row := range records[1:] {
		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		event := entities.Event{
			Name:        field("event_name"),
			Summary:     field("event_summary"),
			Description: field("event_description"),
			Category:    field("event_category"),
			PriceCents:  normalizePrice(field("price_cents")),
			StartDate:   field("start_date"),
			StartTime:   field("start_time"),
			EndDate:     field("end_date"),
			EndTime:     field("end_time"),
			Region:      field("region"),
			PresentedBy: field("presented_by_name"),
			FullAddress: field("full_address"),
		}
		event.ID = fmt.Sprintf("%d-%s", len(events), event.Name)
		event.StartDatetimeUTC = toUTC(event.StartDate, event.StartTime)
		event.EndDatetimeUTC = toUTC(event.EndDate, event.EndTime)

		events = append(events, event)
	}

	log.Info().Int("events", len(events)).Str("path", s.path).Msg("Loaded events dataset")
	return events, nil
}

// normalizePrice coerces the price_cents column to a non-negative integer.
// Blank or unparsable values become 0 (free).
func normalizePrice(raw string) int {
	if raw == "" {
		return 0
	}
	if cents, err := strconv.Atoi(raw); err == nil {
		if cents < 0 {
			return 0
		}
		return cents
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

// toUTC interprets a local date + wall-clock time as IST and returns the
// instant as an RFC 3339 UTC string. Missing or unparsable inputs yield "".
func toUTC(date, clock string) string {
	if date == "" || clock == "" {
		return ""
	}

	day, err := time.ParseInLocation("2006-01-02", date, istLocation)
	if err != nil {
		return ""
	}
	minutes, ok := entities.ParseClockMinutes(clock)
	if !ok {
		return ""
	}

	local := day.Add(time.Duration(minutes) * time.Minute)
	return local.UTC().Format(time.RFC3339)
}
