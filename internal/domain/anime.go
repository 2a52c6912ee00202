package domain

import (
	"fmt"
	"time"
)

type Weekday string

const (
	WeekdayMonday    Weekday = "monday"
	WeekdayTuesday   Weekday = "tuesday"
	WeekdayWednesday Weekday = "wednesday"
	WeekdayThursday  Weekday = "thursday"
	WeekdayFriday    Weekday = "friday"
	WeekdaySaturday  Weekday = "saturday"
	WeekdaySunday    Weekday = "sunday"
	WeekdayUnknown   Weekday = "unknown"
)

func (w Weekday) Known() bool {
	return w != WeekdayUnknown && w != ""
}

func WeekdayFromTime(d time.Weekday) Weekday {
	switch d {
	case time.Monday:
		return WeekdayMonday
	case time.Tuesday:
		return WeekdayTuesday
	case time.Wednesday:
		return WeekdayWednesday
	case time.Thursday:
		return WeekdayThursday
	case time.Friday:
		return WeekdayFriday
	case time.Saturday:
		return WeekdaySaturday
	case time.Sunday:
		return WeekdaySunday
	}
	return WeekdayUnknown
}

func (w Weekday) TimeWeekday() (time.Weekday, bool) {
	switch w {
	case WeekdayMonday:
		return time.Monday, true
	case WeekdayTuesday:
		return time.Tuesday, true
	case WeekdayWednesday:
		return time.Wednesday, true
	case WeekdayThursday:
		return time.Thursday, true
	case WeekdayFriday:
		return time.Friday, true
	case WeekdaySaturday:
		return time.Saturday, true
	case WeekdaySunday:
		return time.Sunday, true
	}
	return time.Sunday, false
}

type AiringStatus string

const (
	StatusAiring      AiringStatus = "airing"
	StatusNotYetAired AiringStatus = "not-yet-aired"
	StatusFinished    AiringStatus = "finished"
	StatusUnknown     AiringStatus = "unknown"
)

// LocalTime is a wall-clock time without a date, as printed on the site
// (e.g. the "17:30" in "Sundays at 17:30 (JST)").
type LocalTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// WatchListEntry is one row of the user's watch list. Immutable once
// produced; unique by AnimeID within a run.
type WatchListEntry struct {
	AnimeID   string
	Title     string
	DetailURL string

	// ListDate is the raw "last updated"/"started" date string rendered in
	// the user's configured format, empty when the column is absent.
	ListDate string
}

// BroadcastSchedule is what a detail page says about when new episodes go
// out. Time is nil when the page only names a day (or nothing at all).
type BroadcastSchedule struct {
	AnimeID string
	Day     Weekday
	Time    *LocalTime
	Status  AiringStatus
}

type DecisionReason string

const (
	ReasonMatchedDayOfWeek  DecisionReason = "matched-day-of-week"
	ReasonDayMismatch       DecisionReason = "day-of-week-mismatch"
	ReasonStatusFinished    DecisionReason = "status-finished"
	ReasonStatusNotYetAired DecisionReason = "status-not-yet-aired"
	ReasonUnresolvable      DecisionReason = "unresolvable"
)

// Decision is the final verdict for one watch-list entry.
type Decision struct {
	AnimeID   string         `json:"animeId"`
	Title     string         `json:"title"`
	AirsToday bool           `json:"airsToday"`
	Reason    DecisionReason `json:"reason"`

	Day  Weekday    `json:"day,omitempty"`
	Time *LocalTime `json:"time,omitempty"`
}

// Decide applies the airs-today rule: only a currently-airing schedule with
// a known broadcast day can match, and a non-airing status wins over any
// day-of-week match.
func Decide(s BroadcastSchedule, reference Weekday) (bool, DecisionReason) {
	switch s.Status {
	case StatusFinished:
		return false, ReasonStatusFinished
	case StatusNotYetAired:
		return false, ReasonStatusNotYetAired
	case StatusAiring:
		if !s.Day.Known() {
			return false, ReasonUnresolvable
		}
		if s.Day == reference {
			return true, ReasonMatchedDayOfWeek
		}
		return false, ReasonDayMismatch
	}
	return false, ReasonUnresolvable
}
