package models

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format for all timestamps exchanged with
// clients and with the statistics service: local time, no zone offset.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime wraps time.Time with the fixed `yyyy-MM-dd HH:mm:ss` JSON form.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + dt.Format(DateTimeLayout) + `"`), nil
}

func (dt *DateTime) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	if str == "" || str == "null" {
		return nil
	}
	t, err := ParseDateTime(str)
	if err != nil {
		return err
	}
	dt.Time = t
	return nil
}

// ParseDateTime parses the wire format used for query parameters and JSON.
func ParseDateTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q, expected format %s: %w", value, "yyyy-MM-dd HH:mm:ss", err)
	}
	return t, nil
}

// FormatDateTime renders t in the wire format.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
