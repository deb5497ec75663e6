package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAnchorsLastEntryToArrival(t *testing.T) {
	arrival := time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC)

	got := Normalize(arrival, []int64{800, 1000})

	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 9, 800_000_000, time.UTC), got[0])
	assert.Equal(t, arrival, got[1])
}

func TestNormalizeBackdatesByOffsetFromLast(t *testing.T) {
	arrival := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := Normalize(arrival, []int64{0, 250, 500})

	require.Len(t, got, 3)
	assert.Equal(t, arrival.Add(-500*time.Millisecond), got[0])
	assert.Equal(t, arrival.Add(-250*time.Millisecond), got[1])
	assert.Equal(t, arrival, got[2])
}

func TestNormalizeClampsEntriesAheadOfAnchor(t *testing.T) {
	arrival := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Relative clock regressed: the first entry is newer than the anchor.
	got := Normalize(arrival, []int64{1500, 1000})

	require.Len(t, got, 2)
	assert.Equal(t, arrival, got[0], "entry ahead of the anchor must clamp to arrival")
	assert.Equal(t, arrival, got[1])
}

func TestNormalizeSingleEntry(t *testing.T) {
	arrival := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := Normalize(arrival, []int64{123456})

	require.Len(t, got, 1)
	assert.Equal(t, arrival, got[0])
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Nil(t, Normalize(time.Now(), nil))
	assert.Nil(t, Normalize(time.Now(), []int64{}))
}
