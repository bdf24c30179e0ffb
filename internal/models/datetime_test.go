package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeMarshalJSON(t *testing.T) {
	dt := NewDateTime(time.Date(2026, 6, 15, 18, 30, 0, 0, time.Local))

	data, err := json.Marshal(dt)
	require.NoError(t, err)
	assert.Equal(t, `"2026-06-15 18:30:00"`, string(data))
}

func TestDateTimeUnmarshalJSON(t *testing.T) {
	var dt DateTime
	err := json.Unmarshal([]byte(`"2026-06-15 18:30:00"`), &dt)
	require.NoError(t, err)

	assert.Equal(t, 2026, dt.Year())
	assert.Equal(t, time.June, dt.Month())
	assert.Equal(t, 15, dt.Day())
	assert.Equal(t, 18, dt.Hour())
	assert.Equal(t, 30, dt.Minute())
}

func TestDateTimeUnmarshalRejectsGarbage(t *testing.T) {
	var dt DateTime
	assert.Error(t, json.Unmarshal([]byte(`"15.06.2026"`), &dt))
	assert.Error(t, json.Unmarshal([]byte(`"2026-06-15T18:30:00Z"`), &dt))
}

func TestParseDateTimeRoundTrip(t *testing.T) {
	original := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)

	parsed, err := ParseDateTime(FormatDateTime(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}
