package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventseekr/backend/internal/domain/entities"
)

func filterFixture() []entities.Event {
	return []entities.Event{
		{ID: "0-AI Summit", Name: "AI Summit", Category: "Tech & AI", PriceCents: 0, StartDate: "2026-03-10", StartTime: "9:00 AM"},
		{ID: "1-Startup Mixer", Name: "Startup Mixer", Category: "Startup & Entrepreneurship", PriceCents: 1500, StartDate: "2026-03-12", StartTime: "7:00 PM"},
		{ID: "2-Design Workshop", Name: "Design Workshop", Category: "Workshop", PriceCents: 500, StartDate: "2026-03-15", StartTime: "2:00 PM"},
		{ID: "3-Night Hack", Name: "Night Hack", Category: "Hackathon", PriceCents: 0, StartDate: "2026-03-20", StartTime: "4:30 AM"},
		{ID: "4-Mystery", Name: "Mystery", Category: "Workshop", PriceCents: 0, StartDate: "someday", StartTime: "whenever"},
	}
}

func TestApplyEmptyFiltersReturnsInput(t *testing.T) {
	events := filterFixture()
	out := Apply(events, entities.Filters{})
	assert.Equal(t, events, out)
}

func TestApplyIsIdempotent(t *testing.T) {
	events := filterFixture()
	filters := entities.Filters{Cost: entities.CostFree}

	once := Apply(events, filters)
	twice := Apply(once, filters)
	assert.Equal(t, once, twice)
}

func TestApplyCostPartition(t *testing.T) {
	events := filterFixture()

	free := Apply(events, entities.Filters{Cost: entities.CostFree})
	paid := Apply(events, entities.Filters{Cost: entities.CostPaid})

	assert.Len(t, free, 3)
	assert.Len(t, paid, 2)
	for _, e := range free {
		assert.True(t, e.IsFree())
	}
	for _, e := range paid {
		assert.False(t, e.IsFree())
	}
}

func TestApplyCategoryBidirectional(t *testing.T) {
	events := filterFixture()

	// Filter shorter than the category label.
	byShort := Apply(events, entities.Filters{Category: "Tech"})
	require.Len(t, byShort, 1)
	assert.Equal(t, "AI Summit", byShort[0].Name)

	// Filter longer than the category label.
	byLong := Apply(events, entities.Filters{Category: "Workshop and more"})
	require.Len(t, byLong, 2)
	assert.Equal(t, "Design Workshop", byLong[0].Name)
	assert.Equal(t, "Mystery", byLong[1].Name)
}

func TestApplyPreservesOrder(t *testing.T) {
	events := filterFixture()
	out := Apply(events, entities.Filters{Cost: entities.CostFree})

	require.Len(t, out, 3)
	assert.Equal(t, "AI Summit", out[0].Name)
	assert.Equal(t, "Night Hack", out[1].Name)
	assert.Equal(t, "Mystery", out[2].Name)
}

func TestApplyDateRange(t *testing.T) {
	events := filterFixture()

	out := Apply(events, entities.Filters{StartDate: "2026-03-11", EndDate: "2026-03-16"})
	require.Len(t, out, 2)
	assert.Equal(t, "Startup Mixer", out[0].Name)
	assert.Equal(t, "Design Workshop", out[1].Name)

	// Bounds are inclusive.
	exact := Apply(events, entities.Filters{StartDate: "2026-03-10", EndDate: "2026-03-10"})
	require.Len(t, exact, 1)
	assert.Equal(t, "AI Summit", exact[0].Name)
}

func TestApplyDateRangeUnparsableEventDateFails(t *testing.T) {
	events := filterFixture()

	out := Apply(events, entities.Filters{StartDate: "2026-01-01"})
	for _, e := range out {
		assert.NotEqual(t, "Mystery", e.Name)
	}
}

func TestApplyDateRangeUnparsableBoundIgnored(t *testing.T) {
	events := filterFixture()

	out := Apply(events, entities.Filters{StartDate: "not-a-date", EndDate: "2026-03-12"})
	require.Len(t, out, 2)
	assert.Equal(t, "AI Summit", out[0].Name)
	assert.Equal(t, "Startup Mixer", out[1].Name)
}

func TestApplyTimeOfDay(t *testing.T) {
	events := filterFixture()

	tests := []struct {
		bucket string
		names  []string
	}{
		{entities.TimeBefore6, []string{"Night Hack"}},
		{entities.TimeMorning, []string{"AI Summit"}},
		{entities.TimeAfternoon, []string{"Design Workshop"}},
		{entities.TimeAfter6, []string{"Startup Mixer"}},
	}

	for _, tt := range tests {
		t.Run(tt.bucket, func(t *testing.T) {
			out := Apply(events, entities.Filters{TimeOfDay: tt.bucket})
			require.Len(t, out, len(tt.names))
			for i, name := range tt.names {
				assert.Equal(t, name, out[i].Name)
			}
		})
	}
}

func TestApplyTimeOfDayUnknownBucketPasses(t *testing.T) {
	// An unrecognized bucket matches every event with a parsable start
	// time. Events without one fail any active time filter.
	events := filterFixture()
	out := Apply(events, entities.Filters{TimeOfDay: "brunch"})
	require.Len(t, out, 4)
	for _, e := range out {
		assert.NotEqual(t, "Mystery", e.Name)
	}
}

func TestApplyFiltersCompose(t *testing.T) {
	events := filterFixture()

	out := Apply(events, entities.Filters{
		Cost:      entities.CostFree,
		Category:  "Tech & AI",
		TimeOfDay: entities.TimeMorning,
	})
	require.Len(t, out, 1)
	assert.Equal(t, "AI Summit", out[0].Name)
}
