// Package schedule implements the availability engine: aggregation of
// per-participant unavailability into a heatmap, ranking of contiguous
// candidate blocks, and mapping of external calendar events onto the grid.
// Everything here is a pure function over immutable inputs; callers recompute
// and discard results freely.
package schedule

import "moija/internal/domain"

// The grid is fixed and session-independent: 15 one-hour slots per day.
// Slot h covers [h:00, h+1:00).
const (
	GridStartHour = 9
	GridEndHour   = 23
	GridHours     = GridEndHour - GridStartHour + 1
)

// Hours returns the hour slots of the grid, ascending.
func Hours() []int {
	hours := make([]int, 0, GridHours)
	for h := GridStartHour; h <= GridEndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// ValidHour reports whether h is a slot of the grid.
func ValidHour(h int) bool {
	return h >= GridStartHour && h <= GridEndHour
}

// ParticipantSchedule is the aggregation input for one participant: their full
// unavailability slot set. An empty set means not submitted.
type ParticipantSchedule struct {
	ID          string
	Name        string
	Unavailable []domain.Slot
}

// Submitted reports whether the participant has entered any data. Participants
// who have not are invisible to heatmap math, so a new joiner is not counted
// as available everywhere.
func (p ParticipantSchedule) Submitted() bool {
	return len(p.Unavailable) > 0
}

// Cell is the derived availability of one (day, hour) cell.
type Cell struct {
	AvailableCount int
	Available      map[string]struct{}
}

// Grid is the dense derived availability over days × hours. Every cell of the
// cross product is present.
type Grid struct {
	Days           []string
	SubmittedCount int
	NamesByID      map[string]string
	cells          map[domain.Slot]Cell
}

// Cell returns the availability of the given (day, hour). The zero Cell is
// returned for coordinates outside the grid.
func (g *Grid) Cell(day string, hour int) Cell {
	return g.cells[domain.Slot{Day: day, Hour: hour}]
}

// Aggregate derives the availability grid from the participants' unavailability
// sets over the given day axis. Only submitted participants contribute.
// Slots referencing hours outside the grid or days outside the axis are
// ignored rather than rejected; validation belongs to the boundary.
func Aggregate(participants []ParticipantSchedule, days []string) *Grid {
	grid := &Grid{
		Days:      days,
		NamesByID: make(map[string]string, len(participants)),
		cells:     make(map[domain.Slot]Cell, len(days)*GridHours),
	}

	var submittedIDs []string
	unavailableByCell := make(map[domain.Slot]map[string]struct{})
	for _, p := range participants {
		grid.NamesByID[p.ID] = p.Name
		if !p.Submitted() {
			continue
		}
		submittedIDs = append(submittedIDs, p.ID)
		for _, slot := range p.Unavailable {
			if !ValidHour(slot.Hour) {
				continue
			}
			set := unavailableByCell[slot]
			if set == nil {
				set = make(map[string]struct{})
				unavailableByCell[slot] = set
			}
			set[p.ID] = struct{}{}
		}
	}
	grid.SubmittedCount = len(submittedIDs)

	for _, day := range days {
		for h := GridStartHour; h <= GridEndHour; h++ {
			slot := domain.Slot{Day: day, Hour: h}
			unavailable := unavailableByCell[slot]
			available := make(map[string]struct{}, len(submittedIDs))
			for _, id := range submittedIDs {
				if _, busy := unavailable[id]; !busy {
					available[id] = struct{}{}
				}
			}
			grid.cells[slot] = Cell{AvailableCount: len(available), Available: available}
		}
	}
	return grid
}
