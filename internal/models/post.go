package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day format used across all tables.
const DateLayout = "2006-01-02"

// Date is a calendar day. It marshals as "2006-01-02" and accepts either
// that layout or RFC3339 on the way in, so CSV-derived and API-supplied
// datasets look the same to the engine.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to the calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// MarshalJSON renders the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02" or RFC3339 timestamps.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Post is a single piece of influencer content with its delivery counters.
type Post struct {
	InfluencerID string   `json:"influencer_id"`
	Platform     Platform `json:"platform"`
	Date         Date     `json:"date"`
	URL          string   `json:"URL"`
	Caption      string   `json:"caption"`
	Reach        int64    `json:"reach"`
	Likes        int64    `json:"likes"`
	Comments     int64    `json:"comments"`
}
