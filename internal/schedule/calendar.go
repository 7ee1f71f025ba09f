package schedule

import (
	"math"
	"sort"
	"time"

	"moija/internal/domain"
)

// timestampLayouts are tried in order when parsing provider timestamps.
// Google returns RFC3339 for timed events and a bare local datetime for
// all-day events.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Conversion is the outcome of mapping busy events onto the grid.
type Conversion struct {
	// Slots is the complete unavailability set the import produces. It fully
	// replaces the participant's prior slots.
	Slots []domain.Slot
	// Spans records one contiguous range per event per day for display.
	Spans []domain.CalendarSpan
	// Conflicts lists event titles per covered cell, deduped.
	Conflicts []domain.CellConflict
	// Skipped counts events dropped because their timestamps did not parse.
	Skipped int
}

// ConvertBusy maps external busy intervals onto the day × hour grid. For each
// event and each day of the axis the event is clipped to that day's
// [09:00, 24:00) window; the touched hours are marked unavailable. Events with
// unparseable timestamps are skipped, never aborting the batch. Day strings
// are interpreted in loc.
func ConvertBusy(events []domain.BusyEvent, days []string, loc *time.Location) Conversion {
	if loc == nil {
		loc = time.UTC
	}

	var conv Conversion
	marked := make(map[domain.Slot]struct{})
	titlesByCell := make(map[domain.Slot]map[string]struct{})

	for _, ev := range events {
		start, okStart := parseTimestamp(ev.Start, loc)
		end, okEnd := parseTimestamp(ev.End, loc)
		if !okStart || !okEnd || !end.After(start) {
			conv.Skipped++
			continue
		}

		for _, day := range days {
			midnight, err := time.ParseInLocation(domain.DayFormat, day, loc)
			if err != nil {
				continue
			}
			windowStart := midnight.Add(GridStartHour * time.Hour)
			windowEnd := midnight.Add(24 * time.Hour)

			clippedStart := maxTime(start, windowStart)
			clippedEnd := minTime(end, windowEnd)
			if !clippedStart.Before(clippedEnd) {
				continue
			}

			startHour := int(math.Floor(clippedStart.Sub(midnight).Hours()))
			if startHour < GridStartHour {
				startHour = GridStartHour
			}
			endHour := int(math.Ceil(clippedEnd.Sub(midnight).Hours())) - 1
			if endHour > GridEndHour {
				endHour = GridEndHour
			}
			if startHour > endHour {
				continue
			}

			for h := startHour; h <= endHour; h++ {
				cell := domain.Slot{Day: day, Hour: h}
				if _, ok := marked[cell]; !ok {
					marked[cell] = struct{}{}
					conv.Slots = append(conv.Slots, cell)
				}
				if ev.Title != "" {
					titles := titlesByCell[cell]
					if titles == nil {
						titles = make(map[string]struct{})
						titlesByCell[cell] = titles
					}
					titles[ev.Title] = struct{}{}
				}
			}
			conv.Spans = append(conv.Spans, domain.CalendarSpan{
				Day:       day,
				StartHour: startHour,
				EndHour:   endHour,
				Title:     ev.Title,
			})
		}
	}

	sortSlots(conv.Slots)
	for cell, titles := range titlesByCell {
		names := make([]string, 0, len(titles))
		for t := range titles {
			names = append(names, t)
		}
		sort.Strings(names)
		conv.Conflicts = append(conv.Conflicts, domain.CellConflict{Day: cell.Day, Hour: cell.Hour, Titles: names})
	}
	sort.Slice(conv.Conflicts, func(i, j int) bool {
		if conv.Conflicts[i].Day != conv.Conflicts[j].Day {
			return conv.Conflicts[i].Day < conv.Conflicts[j].Day
		}
		return conv.Conflicts[i].Hour < conv.Conflicts[j].Hour
	})
	return conv
}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sortSlots(slots []domain.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		return slots[i].Hour < slots[j].Hour
	})
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
