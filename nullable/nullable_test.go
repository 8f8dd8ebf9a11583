package nullable

import (
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringScanAndJSON(t *testing.T) {
	var s String
	require.NoError(t, s.Scan("ann"))
	assert.Equal(t, "ann", s.ForceValue())

	out, err := json.Marshal(map[string]any{"a": s, "b": String{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"ann","b":null}`, string(out))

	require.NoError(t, s.Scan(nil))
	assert.True(t, s.IsNil())
	assert.Equal(t, "", s.ForceValue())

	require.NoError(t, json.Unmarshal([]byte(`"x"`), &s))
	assert.Equal(t, StringOf("x"), s)
	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.True(t, s.IsNil())
}

func TestIntScanAndValue(t *testing.T) {
	var i Int
	require.NoError(t, i.Scan("42"))
	assert.Equal(t, int64(42), i.ForceValue())
	assert.Error(t, i.Scan("4x"))

	v, err := IntOf(7).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = Int{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	out, err := json.Marshal([]Int{IntOf(1), {}})
	require.NoError(t, err)
	assert.Equal(t, `[1,null]`, string(out))
}

func TestTimeScanText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01 12:30:00+00", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-03-01 12:30:00.25+02", time.Date(2024, 3, 1, 10, 30, 0, 250_000_000, time.UTC)},
		{"2024-03-01 12:30:00+05:30", time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)},
		{"2024-03-01 12:30:00", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01T12:30:00Z", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Time
			require.NoError(t, n.Scan(tt.in))
			assert.True(t, n.Valid)
			assert.True(t, tt.want.Equal(n.Time), "got %v", n.Time)
		})
	}
}

func TestTimeScanOther(t *testing.T) {
	var n Time
	assert.ErrorContains(t, n.Scan("yesterday"), "cannot parse")

	now := time.Now()
	require.NoError(t, n.Scan(now))
	assert.Equal(t, now, n.ForceValue())

	require.NoError(t, n.Scan(nil))
	assert.True(t, n.IsNil())
	assert.True(t, n.ForceValue().IsZero())

	var _ driver.Valuer = TimeOf(now)
}
