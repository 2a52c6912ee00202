package app

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
)

const episodeSlot = 30 * time.Minute

// BuildCalendar renders the airing-today decisions as an ICS calendar with
// one event per title, on the reference date. Titles without a broadcast
// time become all-day events.
func BuildCalendar(decisions []domain.Decision, reference time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//basic-myanimelist-crawler//EN")

	for _, d := range decisions {
		if !d.AirsToday {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("anime-%s@myanimelist.net", d.AnimeID))
		ev.SetDtStampTime(reference)
		ev.SetSummary(d.Title + " (new episode)")

		if d.Time != nil {
			start := time.Date(reference.Year(), reference.Month(), reference.Day(),
				d.Time.Hour, d.Time.Minute, 0, 0, reference.Location())
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(episodeSlot))
		} else {
			day := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}
	}

	return cal
}
