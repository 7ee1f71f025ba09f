package schedule

import (
	"fmt"
	"sort"
)

// TopBlocks is how many ranked blocks Rank returns at most.
const TopBlocks = 10

// MinBlockHours is the minimum block length; single-hour ranges are never
// recommended.
const MinBlockHours = 2

// Block is a contiguous hour range on one day where AvailableCount
// participants are available for every hour of the range.
type Block struct {
	Day            string
	StartHour      int
	EndHour        int // inclusive
	Length         int
	AvailableCount int
	Names          []string
}

// Label renders the block for display. The end hour is shown exclusive: a
// block covering hours 14 and 15 renders as 14:00–16:00.
func (b Block) Label() string {
	return fmt.Sprintf("%s %d:00–%d:00 (%d시간)", b.Day, b.StartHour, b.EndHour+1, b.Length)
}

// Rank enumerates every contiguous range of at least two hours per day,
// keeps those where some participant set is available across the whole range,
// and returns the top blocks ordered by attendee count, then length, then
// earlier day, then earlier start hour.
func Rank(grid *Grid) []Block {
	hours := Hours()
	var candidates []Block
	for _, day := range grid.Days {
		for i := 0; i < len(hours); i++ {
			inter := copySet(grid.Cell(day, hours[i]).Available)
			if len(inter) == 0 {
				continue
			}
			for j := i + 1; j < len(hours); j++ {
				inter = intersect(inter, grid.Cell(day, hours[j]).Available)
				if len(inter) == 0 {
					// Extending further can only keep the intersection empty.
					break
				}
				candidates = append(candidates, Block{
					Day:            day,
					StartHour:      hours[i],
					EndHour:        hours[j],
					Length:         hours[j] - hours[i] + 1,
					AvailableCount: len(inter),
					Names:          resolveNames(inter, grid.NamesByID),
				})
			}
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.AvailableCount != cb.AvailableCount {
			return ca.AvailableCount > cb.AvailableCount
		}
		if ca.Length != cb.Length {
			return ca.Length > cb.Length
		}
		if ca.Day != cb.Day {
			return ca.Day < cb.Day
		}
		return ca.StartHour < cb.StartHour
	})

	if len(candidates) > TopBlocks {
		candidates = candidates[:TopBlocks]
	}
	return candidates
}

func copySet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// intersect shrinks a in place to the keys also present in b.
func intersect(a, b map[string]struct{}) map[string]struct{} {
	for k := range a {
		if _, ok := b[k]; !ok {
			delete(a, k)
		}
	}
	return a
}

func resolveNames(ids map[string]struct{}, namesByID map[string]string) []string {
	names := make([]string, 0, len(ids))
	for id := range ids {
		if name, ok := namesByID[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id)
		}
	}
	sort.Strings(names)
	return names
}
