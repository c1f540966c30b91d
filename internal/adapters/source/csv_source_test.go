package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const csvHeader = "event_name,event_summary,event_description,event_category,price_cents,start_date,start_time,end_date,end_time,region,presented_by_name,full_address\n"

func TestLoadParsesRows(t *testing.T) {
	csv := csvHeader +
		"AI Summit,Talks all day,Big keynotes,Tech & AI,2500,2026-03-10,9:00 AM,2026-03-10,5:00 PM,Bengaluru,Acme,1 Main St\n" +
		"Free Yoga,Morning flow,,Wellness,,2026-03-11,7:00 AM,2026-03-11,8:00 AM,Mumbai,,\n"

	events, err := NewCSVSource(writeCSV(t, csv)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "0-AI Summit", first.ID)
	assert.Equal(t, "AI Summit", first.Name)
	assert.Equal(t, "Tech & AI", first.Category)
	assert.Equal(t, 2500, first.PriceCents)
	assert.Equal(t, "Bengaluru", first.Region)

	second := events[1]
	assert.Equal(t, "1-Free Yoga", second.ID)
	assert.Equal(t, 0, second.PriceCents)
	assert.True(t, second.IsFree())
}

func TestLoadConvertsISTToUTC(t *testing.T) {
	csv := csvHeader +
		"Evening Meetup,,,Networking & Community,0,2026-03-10,7:00 PM,2026-03-10,9:00 PM,Delhi,,\n"

	events, err := NewCSVSource(writeCSV(t, csv)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	// 19:00 IST is 13:30 UTC.
	assert.Equal(t, "2026-03-10T13:30:00Z", events[0].StartDatetimeUTC)
	assert.Equal(t, "2026-03-10T15:30:00Z", events[0].EndDatetimeUTC)
}

func TestLoadMissingTimesYieldEmptyUTC(t *testing.T) {
	csv := csvHeader +
		"TBD Event,,,Workshop,0,2026-04-01,,,,,,\n"

	events, err := NewCSVSource(writeCSV(t, csv)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].StartDatetimeUTC)
	assert.Empty(t, events[0].EndDatetimeUTC)
}

func TestLoadNormalizesPrices(t *testing.T) {
	csv := csvHeader +
		"A,,,C,-500,2026-01-01,,,,,,\n" +
		"B,,,C,1234.0,2026-01-01,,,,,,\n" +
		"C,,,C,not-a-number,2026-01-01,,,,,,\n"

	events, err := NewCSVSource(writeCSV(t, csv)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 0, events[0].PriceCents)
	assert.Equal(t, 1234, events[1].PriceCents)
	assert.Equal(t, 0, events[2].PriceCents)
}

func TestLoadShortRowsTolerated(t *testing.T) {
	csv := csvHeader +
		"Short Row,Summary only\n"

	events, err := NewCSVSource(writeCSV(t, csv)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Short Row", events[0].Name)
	assert.Empty(t, events[0].Category)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv")).Load(context.Background())
	require.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := NewCSVSource(writeCSV(t, "")).Load(context.Background())
	require.Error(t, err)
}
