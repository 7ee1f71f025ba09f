package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moija/internal/domain"
)

// fully available participants: submitted via a slot outside the axis so no
// grid cell is blocked.
func fullyAvailable(id, name string) ParticipantSchedule {
	return ParticipantSchedule{ID: id, Name: name, Unavailable: []domain.Slot{{Day: "1970-01-01", Hour: 9}}}
}

func TestRank_FullAvailabilitySpansWholeDay(t *testing.T) {
	days := []string{"2025-06-01", "2025-06-02"}
	participants := []ParticipantSchedule{
		fullyAvailable("p1", "a"),
		fullyAvailable("p2", "b"),
		fullyAvailable("p3", "c"),
	}

	blocks := Rank(Aggregate(participants, days))

	require.NotEmpty(t, blocks)
	top := blocks[0]
	assert.Equal(t, "2025-06-01", top.Day)
	assert.Equal(t, 9, top.StartHour)
	assert.Equal(t, 23, top.EndHour)
	assert.Equal(t, 15, top.Length)
	assert.Equal(t, 3, top.AvailableCount)
	assert.Equal(t, []string{"a", "b", "c"}, top.Names)
	// The second day's full block ranks right behind (same count and length,
	// later day).
	assert.Equal(t, "2025-06-02", blocks[1].Day)
	assert.Equal(t, 15, blocks[1].Length)
}

func TestRank_IntersectionBreaksAcrossUnavailableHour(t *testing.T) {
	days := []string{"2025-06-01", "2025-06-02"}

	// Both are busy from 16:00 on day one and all of day two; additionally A
	// is busy at 10 and B at 14. The only ranges where both remain are inside
	// [11,13].
	shared := []domain.Slot{}
	for h := 16; h <= 23; h++ {
		shared = append(shared, domain.Slot{Day: "2025-06-01", Hour: h})
	}
	for _, h := range Hours() {
		shared = append(shared, domain.Slot{Day: "2025-06-02", Hour: h})
	}
	participants := []ParticipantSchedule{
		{ID: "a", Name: "A", Unavailable: append([]domain.Slot{{Day: "2025-06-01", Hour: 10}}, shared...)},
		{ID: "b", Name: "B", Unavailable: append([]domain.Slot{{Day: "2025-06-01", Hour: 14}}, shared...)},
	}

	blocks := Rank(Aggregate(participants, days))
	require.NotEmpty(t, blocks)

	for _, b := range blocks {
		spans := func(hour int) bool { return b.StartHour <= hour && hour <= b.EndHour }
		if b.Day == "2025-06-01" && spans(10) {
			assert.Less(t, b.AvailableCount, 2, "no block spanning hour 10 can have both available: %+v", b)
		}
		if b.Day == "2025-06-01" && spans(14) {
			assert.Less(t, b.AvailableCount, 2, "no block spanning hour 14 can have both available: %+v", b)
		}
	}

	// [11,13] keeps both participants for every hour and must rank first.
	top := blocks[0]
	assert.Equal(t, "2025-06-01", top.Day)
	assert.Equal(t, 11, top.StartHour)
	assert.Equal(t, 13, top.EndHour)
	assert.Equal(t, 2, top.AvailableCount)
	assert.Equal(t, []string{"A", "B"}, top.Names)
}

func TestRank_TieBreakDeterminism(t *testing.T) {
	// One participant, unavailable at hour 16 on both days: each day yields
	// identical candidates [9,15] and [17,23] (length 7, count 1).
	days := []string{"2025-06-03", "2025-06-04"}
	participants := []ParticipantSchedule{
		{ID: "p", Name: "솔로", Unavailable: []domain.Slot{
			{Day: "2025-06-03", Hour: 16},
			{Day: "2025-06-04", Hour: 16},
		}},
	}

	blocks := Rank(Aggregate(participants, days))
	require.GreaterOrEqual(t, len(blocks), 4)

	// Equal count and length: earlier day first, then earlier start hour.
	assert.Equal(t, "2025-06-03", blocks[0].Day)
	assert.Equal(t, 9, blocks[0].StartHour)
	assert.Equal(t, "2025-06-03", blocks[1].Day)
	assert.Equal(t, 17, blocks[1].StartHour)
	assert.Equal(t, "2025-06-04", blocks[2].Day)
	assert.Equal(t, 9, blocks[2].StartHour)
	assert.Equal(t, "2025-06-04", blocks[3].Day)
	assert.Equal(t, 17, blocks[3].StartHour)
}

func TestRank_NoSingleHourBlocks(t *testing.T) {
	// Only hour 12 is free for everyone; it must still never be recommended.
	var unavailable []domain.Slot
	for _, h := range Hours() {
		if h == 12 {
			continue
		}
		unavailable = append(unavailable, domain.Slot{Day: "2025-06-01", Hour: h})
	}
	participants := []ParticipantSchedule{
		{ID: "p1", Name: "a", Unavailable: unavailable},
		{ID: "p2", Name: "b", Unavailable: unavailable},
	}

	blocks := Rank(Aggregate(participants, []string{"2025-06-01"}))

	for _, b := range blocks {
		assert.GreaterOrEqual(t, b.Length, MinBlockHours)
		assert.NotEqual(t, b.StartHour, b.EndHour)
	}
}

func TestRank_TopTenCap(t *testing.T) {
	days := []string{"2025-06-01", "2025-06-02", "2025-06-03"}
	participants := []ParticipantSchedule{fullyAvailable("p1", "a")}

	blocks := Rank(Aggregate(participants, days))

	// 3 days × C(15,2) = 315 candidates, capped at 10.
	assert.Len(t, blocks, TopBlocks)
	// Highest count is 1 everywhere, so the longest blocks win first.
	assert.Equal(t, 15, blocks[0].Length)
}

func TestRank_CountBeatsLength(t *testing.T) {
	days := []string{"2025-06-01"}
	// Both free 9-10 only; p2 otherwise busy.
	var p2Busy []domain.Slot
	for _, h := range Hours() {
		if h == 9 || h == 10 {
			continue
		}
		p2Busy = append(p2Busy, domain.Slot{Day: "2025-06-01", Hour: h})
	}
	participants := []ParticipantSchedule{
		fullyAvailable("p1", "a"),
		{ID: "p2", Name: "b", Unavailable: p2Busy},
	}

	blocks := Rank(Aggregate(participants, days))
	require.NotEmpty(t, blocks)

	// The short 2-hour block with both beats the day-long block with one.
	assert.Equal(t, 2, blocks[0].AvailableCount)
	assert.Equal(t, 9, blocks[0].StartHour)
	assert.Equal(t, 10, blocks[0].EndHour)
}

func TestBlockLabel(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{
			name:  "two hour block shows exclusive end",
			block: Block{Day: "2025-06-01", StartHour: 14, EndHour: 15, Length: 2},
			want:  "2025-06-01 14:00–16:00 (2시간)",
		},
		{
			name:  "full day block",
			block: Block{Day: "2025-06-02", StartHour: 9, EndHour: 23, Length: 15},
			want:  "2025-06-02 9:00–24:00 (15시간)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.block.Label())
		})
	}
}
