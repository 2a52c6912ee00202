package dateparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
)

// dayNames covers the full names, their plural forms as the site renders
// them ("Sundays at 17:30 (JST)"), and the usual abbreviations. Plurals are
// listed outright; words are never stemmed, so an unrelated word ending in
// "s" cannot resolve to a day.
var dayNames = map[string]domain.Weekday{
	"monday": domain.WeekdayMonday, "mondays": domain.WeekdayMonday, "mon": domain.WeekdayMonday,
	"tuesday": domain.WeekdayTuesday, "tuesdays": domain.WeekdayTuesday, "tue": domain.WeekdayTuesday, "tues": domain.WeekdayTuesday,
	"wednesday": domain.WeekdayWednesday, "wednesdays": domain.WeekdayWednesday, "wed": domain.WeekdayWednesday,
	"thursday": domain.WeekdayThursday, "thursdays": domain.WeekdayThursday, "thu": domain.WeekdayThursday, "thur": domain.WeekdayThursday, "thurs": domain.WeekdayThursday,
	"friday": domain.WeekdayFriday, "fridays": domain.WeekdayFriday, "fri": domain.WeekdayFriday,
	"saturday": domain.WeekdaySaturday, "saturdays": domain.WeekdaySaturday, "sat": domain.WeekdaySaturday,
	"sunday": domain.WeekdaySunday, "sundays": domain.WeekdaySunday, "sun": domain.WeekdaySunday,
}

var timeToken = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)

var wordSplit = regexp.MustCompile(`[^A-Za-z]+`)

// ParseBroadcast extracts a day-of-week and an optional HH:MM time from a
// broadcast string such as "Sundays at 17:30 (JST)". Day text is the least
// structured field on the source site, so an unrecognized day degrades to
// WeekdayUnknown instead of failing; only blank input is an error.
func ParseBroadcast(text string) (domain.Weekday, *domain.LocalTime, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.WeekdayUnknown, nil, &ParseError{Kind: UnrecognizedToken, Text: text, Msg: "empty broadcast text"}
	}

	day := domain.WeekdayUnknown
	for _, word := range wordSplit.Split(strings.ToLower(trimmed), -1) {
		if d, ok := dayNames[word]; ok {
			day = d
			break
		}
	}

	var at *domain.LocalTime
	if m := timeToken.FindStringSubmatch(trimmed); m != nil {
		h := int(m[1][0] - '0')
		if len(m[1]) == 2 {
			h = h*10 + int(m[1][1]-'0')
		}
		min := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
		// a nonsense clock is treated as absent, not fatal
		if h < 24 && min < 60 {
			at = &domain.LocalTime{Hour: h, Minute: min}
		}
	}

	return day, at, nil
}

// ShiftFromJST converts a broadcast day/time stated in Japan Standard Time
// into loc, shifting the weekday by -1/0/+1 when the clock crosses
// midnight. now anchors the computation to a concrete week so DST rules in
// loc are honored.
func ShiftFromJST(day domain.Weekday, at domain.LocalTime, loc *time.Location, now time.Time) (domain.Weekday, domain.LocalTime) {
	target, ok := day.TimeWeekday()
	if !ok || loc == nil {
		return day, at
	}

	jst, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return day, at
	}

	ref := now.In(jst)
	daysUntil := (int(target) - int(ref.Weekday()) + 7) % 7
	airing := time.Date(ref.Year(), ref.Month(), ref.Day()+daysUntil, at.Hour, at.Minute, 0, 0, jst)
	local := airing.In(loc)

	return domain.WeekdayFromTime(local.Weekday()), domain.LocalTime{Hour: local.Hour(), Minute: local.Minute()}
}
