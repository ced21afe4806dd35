package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used by the products API.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component. It marshals as
// "YYYY-MM-DD" and accepts both that layout and RFC 3339 timestamps when
// unmarshalling, since the backend is not consistent about which it returns.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date, accepting "YYYY-MM-DD" or RFC 3339 input.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected %s or RFC 3339", s, DateLayout)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// AddYears returns the date shifted by n calendar years, same month and day.
func (d Date) AddYears(n int) Date {
	return Date{d.Time.AddDate(n, 0, 0)}
}

// String formats the date as "YYYY-MM-DD"; the zero value formats as "".
func (d Date) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// MarshalJSON encodes the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes "YYYY-MM-DD" or RFC 3339 strings; empty means unset.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Product represents one catalog item exposed by the products API.
// The ID acts as the primary key and is immutable once created.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  Date   `json:"date_release"`
	DateRevision Date   `json:"date_revision"`
}

// Column describes one field of the product table for display purposes.
type Column struct {
	Key    string
	Label  string
	Desc   string // optional tooltip text
	Center bool   // center-align the cell content
}
