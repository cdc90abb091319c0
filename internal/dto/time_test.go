package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateOnly_JSON(t *testing.T) {
	d := NewDateOnly(time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	// The time-of-day portion is dropped.
	require.Equal(t, `"2026-09-01"`, string(data))

	var parsed DateOnly
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-01"`), &parsed))
	require.True(t, parsed.Time().Equal(d.Time()))
}

func TestDateOnly_ZeroMarshalsNull(t *testing.T) {
	data, err := json.Marshal(DateOnly(time.Time{}))
	require.NoError(t, err)
	require.Equal(t, "null", string(data))
}

func TestDateOnly_RejectsBadInput(t *testing.T) {
	var d DateOnly
	require.Error(t, json.Unmarshal([]byte(`"01/09/2026"`), &d))
}

func TestDateTime_JSON(t *testing.T) {
	dt := NewDateTime(time.Date(2026, 9, 1, 14, 30, 5, 0, time.Local))
	require.NotNil(t, dt)

	data, err := json.Marshal(dt)
	require.NoError(t, err)
	require.Equal(t, `"2026-09-01 14:30:05"`, string(data))

	var parsed DateTime
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.True(t, parsed.Time().Equal(dt.Time()))
}

func TestDateTime_ZeroIsNil(t *testing.T) {
	require.Nil(t, NewDateTime(time.Time{}))
}
