package nullable

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Time in `nullable` package
// implements: sql.Scanner and driver.Valuer by embedding sql.NullTime
// implements: json.Marshaler and json.Unmarshaler
//
// Scan also accepts the text output of date, timestamp and timestamptz columns.
type Time struct {
	sql.NullTime
}

// text output layouts with DateStyle=ISO
var pgTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	time.RFC3339Nano,
}

func TimeOf(t time.Time) Time {
	return Time{sql.NullTime{Time: t, Valid: true}}
}

func (n *Time) Scan(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return n.NullTime.Scan(value)
	}
	for _, layout := range pgTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("nullable.Time: cannot parse %q", s)
}

func (n Time) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.Time.Format(time.RFC3339))
	}
	return []byte("null"), nil
}

func (n *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Valid = false
		n.Time = time.Time{}
		return nil
	}
	var str string // to string, then, to time.Time
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, str) // time.Time
	if err != nil {
		return err
	}
	n.Time = t
	n.Valid = true
	return nil
}

func (n *Time) ForceValue() time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return n.Time
}

func (n *Time) IsNil() bool {
	return !n.Valid
}
