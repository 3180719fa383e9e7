package wire

import (
	"time"

	"github.com/go-json-experiment/json/jsontext"
)

// Timestamp is a Unix time in seconds.
type Timestamp int64

// TimestampOf converts t, truncating to the second.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.Unix())
}

// Time returns the timestamp in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Currency is a lowercase three-letter ISO currency code.
type Currency string

// String returns the code.
func (c Currency) String() string { return string(c) }

// Date is a calendar date in YYYY-MM-DD form.
type Date string

// Time parses the date as midnight UTC.
func (d Date) Time() (time.Time, error) {
	return time.Parse(time.DateOnly, string(d))
}

// Value is an arbitrary JSON value kept verbatim.
type Value = jsontext.Value
