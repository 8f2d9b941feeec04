package service

import "time"

const (
	// DefaultDateFormat and DefaultTimeFormat are used when no layout is configured.
	DefaultDateFormat = "January 2, 2006"
	DefaultTimeFormat = "3:04 pm"
)

// DisplayLayout controls how report times are shown to people. The web
// page and the CLI share one layout so a row reads the same in both.
type DisplayLayout struct {
	DateFormat string
	TimeFormat string
	// Location defaults to UTC.
	Location *time.Location
}

// DisplayTime is a modification time rendered for display.
type DisplayTime struct {
	Datetime string // RFC3339, for machine-readable attributes
	Date     string
	Time     string
}

// Format renders t in the layout's location.
func (l DisplayLayout) Format(t time.Time) DisplayTime {
	dateFormat, timeFormat := l.DateFormat, l.TimeFormat
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return DisplayTime{
		Datetime: t.Format(time.RFC3339),
		Date:     t.Format(dateFormat),
		Time:     t.Format(timeFormat),
	}
}
