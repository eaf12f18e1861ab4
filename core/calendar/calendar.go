// Package calendar computes the workdays of a scheduling horizon.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/crewplan/core/model"
)

// ErrInvalidRange is returned for impossible calendar bounds.
var ErrInvalidRange = errors.New("invalid calendar range")

// HolidaySet holds excluded days keyed by model.Day.
type HolidaySet map[time.Time]bool

// NewHolidaySet builds a set from arbitrary timestamps.
func NewHolidaySet(days ...time.Time) HolidaySet {
	hs := make(HolidaySet, len(days))
	for _, d := range days {
		hs[model.Day(d)] = true
	}
	return hs
}

// Contains reports whether d is a holiday.
func (h HolidaySet) Contains(d time.Time) bool {
	return h[model.Day(d)]
}

// IsWorkday reports whether d is neither a weekend day nor a holiday.
func IsWorkday(d time.Time, holidays HolidaySet) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(d)
}

// Workdays returns the working days of the given month in ascending order.
func Workdays(year int, month time.Month, holidays HolidaySet) ([]model.Workday, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidRange, month)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidRange, year)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Range(start, start.AddDate(0, 1, -1), holidays)
}

// Range returns the working days in the inclusive span [start, end].
func Range(start, end time.Time, holidays HolidaySet) ([]model.Workday, error) {
	start, end = model.Day(start), model.Day(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	var days []model.Workday
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkday(d, holidays) {
			days = append(days, model.Workday{Index: len(days), Date: d})
		}
	}
	return days, nil
}
