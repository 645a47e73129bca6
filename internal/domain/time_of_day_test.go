package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpan(t *testing.T, s string) Span {
	t.Helper()
	span, err := ParseSpanString(s)
	require.NoError(t, err)
	return span
}

func TestParseTimeOfDay(t *testing.T) {
	cases := map[string]TimeOfDay{
		"09:00":    540,
		"9:30":     570,
		"13:45:00": 825,
		"6:00 AM":  360,
		"2:00 pm":  840,
		"12:00 AM": 0,
		"11PM":     1380,
	}
	for in, want := range cases {
		got, err := ParseTimeOfDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "25:00", "abc", "9h"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "00:00", TimeOfDay(0).String())
	assert.Equal(t, "09:05", TimeOfDay(545).String())
}

func TestParseSpan_RejectsEmptySpan(t *testing.T) {
	_, err := ParseSpan("09:00", "09:00")
	assert.Error(t, err)
}

func TestParseSpanString(t *testing.T) {
	assert.Equal(t, Span{Start: 480, End: 840}, mustSpan(t, "08:00-14:00"))
	assert.Equal(t, Span{Start: 360, End: 840}, mustSpan(t, "6:00 AM - 2:00 PM"))
	assert.Equal(t, Span{Start: 1320, End: 360}, mustSpan(t, "22:00~06:00"))

	_, err := ParseSpanString("all day")
	assert.Error(t, err)
}

func TestSpanDuration(t *testing.T) {
	assert.Equal(t, 240, mustSpan(t, "09:00-13:00").Duration())
	// 跨午夜：24h - 22:00 + 02:00
	assert.Equal(t, 240, mustSpan(t, "22:00-02:00").Duration())
	assert.Equal(t, 120, mustSpan(t, "22:00-00:00").Duration())
}

func TestSpanContains(t *testing.T) {
	window := mustSpan(t, "08:00-14:00")
	assert.True(t, window.Contains(mustSpan(t, "09:00-13:00")))
	assert.True(t, window.Contains(mustSpan(t, "08:00-14:00")))
	assert.False(t, window.Contains(mustSpan(t, "13:00-17:00")))
	assert.False(t, window.Contains(mustSpan(t, "07:30-09:00")))
	assert.False(t, window.Contains(mustSpan(t, "13:00-01:00")))

	overnight := mustSpan(t, "22:00-06:00")
	assert.True(t, overnight.Contains(mustSpan(t, "23:00-01:00")))
	assert.True(t, overnight.Contains(mustSpan(t, "01:00-03:00")))
	assert.False(t, overnight.Contains(mustSpan(t, "05:00-07:00")))
	assert.False(t, overnight.Contains(mustSpan(t, "20:00-23:00")))
}

func TestSpanOverlaps(t *testing.T) {
	assert.True(t, mustSpan(t, "09:00-13:00").Overlaps(mustSpan(t, "12:00-15:00")))
	assert.False(t, mustSpan(t, "09:00-13:00").Overlaps(mustSpan(t, "13:00-17:00")))
	assert.True(t, mustSpan(t, "22:00-02:00").Overlaps(mustSpan(t, "01:00-03:00")))
	assert.False(t, mustSpan(t, "22:00-02:00").Overlaps(mustSpan(t, "02:00-06:00")))
}

func TestRosterEmployeeWorksDuring(t *testing.T) {
	emp := RosterEmployee{ID: "a", Name: "A", TimeBlocks: []string{"06:00-10:00", "bogus", "16:00-20:00"}}
	assert.True(t, emp.WorksDuring(mustSpan(t, "17:00-19:00")))
	assert.False(t, emp.WorksDuring(mustSpan(t, "09:00-17:00")))
	assert.Len(t, emp.Windows(), 2)
}
