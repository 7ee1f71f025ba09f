// Package export renders derived scheduling results into downloadable
// formats.
package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"moija/internal/domain"
)

// RecommendedBlocksICS renders the ranked blocks of a session as an iCalendar
// payload, one VEVENT per block, so a picked time can be dropped straight into
// a calendar app. Day strings are interpreted in loc.
func RecommendedBlocksICS(session *domain.Session, blocks []domain.RecommendedBlock, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for i, block := range blocks {
		day, err := time.ParseInLocation(domain.DayFormat, block.Day, loc)
		if err != nil {
			return "", fmt.Errorf("invalid block day %q: %w", block.Day, err)
		}
		start := day.Add(time.Duration(block.StartHour) * time.Hour)
		end := day.Add(time.Duration(block.EndHour+1) * time.Hour)

		event := cal.AddEvent(fmt.Sprintf("block-%d-%s@%s", i+1, block.Day, session.ShareID))
		event.SetDtStampTime(time.Now().UTC())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("모임 추천 시간 #%d (%d명 가능)", i+1, block.AvailableCount))
		event.SetDescription(block.Label)
	}

	return cal.Serialize(), nil
}
