package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/meal-attendance-api/internal/constants"
)

// DateOnly serializes as yyyy-MM-dd in the server's local timezone.
type DateOnly time.Time

func NewDateOnly(t time.Time) DateOnly {
	return DateOnly(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local))
}

func (d DateOnly) Time() time.Time {
	return time.Time(d)
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", t.Format(constants.DateFormat))), nil
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = DateOnly(time.Time{})
		return nil
	}
	t, err := time.ParseInLocation(constants.DateFormat, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected yyyy-MM-dd: %w", s, err)
	}
	*d = DateOnly(t)
	return nil
}

// DateTime serializes as "yyyy-MM-dd HH:mm:ss" in the server's local timezone.
type DateTime time.Time

func NewDateTime(t time.Time) *DateTime {
	if t.IsZero() {
		return nil
	}
	dt := DateTime(t.In(time.Local))
	return &dt
}

func (d DateTime) Time() time.Time {
	return time.Time(d)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", t.Format(constants.DateTimeFormat))), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = DateTime(time.Time{})
		return nil
	}
	t, err := time.ParseInLocation(constants.DateTimeFormat, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q, expected yyyy-MM-dd HH:mm:ss: %w", s, err)
	}
	*d = DateTime(t)
	return nil
}
