package schedule

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
)

// StorageKey is where the class schedule list is persisted.
const StorageKey = "classSchedules"

// Filters
const (
	FilterAll      = "all"
	FilterUpcoming = "upcoming"
)

// Schedule is one class slot. Schedules carry no identifier and are addressed by position.
type Schedule struct {
	ClassName string `json:"className"`
	Time      string `json:"time"` // HH:MM
}

// At returns the schedule's time on the day of `day`, in day's location.
func (s Schedule) At(day time.Time) (time.Time, bool) {
	t, err := time.Parse(core.TimeLayout, s.Time)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

// NewSchedule contains information needed to create or edit a Schedule.
type NewSchedule struct {
	ClassName string `json:"className" validate:"required,notblank"`
	Time      string `json:"time" validate:"required,hhmm"`
}

func (ns *NewSchedule) Validate(validate *validator.Validate) error {
	ns.ClassName = core.CleanString(ns.ClassName)
	ns.Time = core.CleanString(ns.Time)
	return validate.Struct(ns)
}

type QueryFilter struct {
	Search string `query:"search"`
	Filter string `query:"filter"` // all | upcoming
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	qf.Filter = core.CleanString(qf.Filter, true /* lower */)
}

// Match applies the upcoming filter (later today than now) and the case-insensitive name search.
func (qf QueryFilter) Match(s Schedule, now time.Time) bool {
	if qf.Filter == FilterUpcoming {
		at, ok := s.At(now)
		if !ok || !at.After(now) {
			return false
		}
	}
	return strings.Contains(strings.ToLower(s.ClassName), qf.Search)
}
