package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_Helpers(t *testing.T) {
	s := Series{
		{Time: "1/1/2024", Price: 60000},
		{Time: "1/2/2024", Price: 64000},
		{Time: Now, Price: 63000},
	}

	assert.Equal(t, []float64{60000, 64000, 63000}, s.Prices())
	assert.Equal(t, []string{"1/1/2024", "1/2/2024", Now}, s.Labels())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, Now, last.Time)

	diff, pct := s.Change()
	assert.Equal(t, 3000.0, diff)
	assert.Equal(t, 5.0, pct)

	lo, hi := s.Bounds()
	assert.Equal(t, 60000.0, lo)
	assert.Equal(t, 64000.0, hi)
}

func TestSeries_Empty(t *testing.T) {
	var s Series
	_, ok := s.Last()
	assert.False(t, ok)

	diff, pct := s.Change()
	assert.Zero(t, diff)
	assert.Zero(t, pct)

	lo, hi := s.Bounds()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestSubscribeRequest_AcceptsNumbersAndStrings(t *testing.T) {
	var req SubscribeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":"subscribe","days":30,"seed":"0.5"}`), &req))
	assert.Equal(t, Param("30"), req.Days)
	assert.Equal(t, Param("0.5"), req.Seed)

	req = SubscribeRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"days":null,"seed":1e2}`), &req))
	assert.Equal(t, Param(""), req.Days)
	assert.Equal(t, Param("1e2"), req.Seed)
}
