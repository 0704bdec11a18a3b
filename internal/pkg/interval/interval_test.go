package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2024, time.March, 4, h, m, 0, 0, time.UTC)
}

func span(h1, m1, h2, m2 int) Interval {
	return Interval{Start: at(h1, m1), End: at(h2, m2)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{"identical", span(10, 0, 10, 30), span(10, 0, 10, 30), true},
		{"partial overlap at start", span(10, 0, 10, 30), span(9, 45, 10, 15), true},
		{"partial overlap at end", span(10, 0, 10, 30), span(10, 15, 10, 45), true},
		{"contained", span(9, 0, 12, 0), span(10, 0, 10, 30), true},
		{"touching end to start", span(10, 0, 10, 30), span(10, 30, 11, 0), false},
		{"touching start to end", span(10, 30, 11, 0), span(10, 0, 10, 30), false},
		{"disjoint", span(8, 0, 9, 0), span(10, 0, 11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "overlap should be symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	work := span(9, 0, 17, 0)

	assert.True(t, Contains(work, span(9, 0, 9, 30)), "start boundary is inclusive")
	assert.True(t, Contains(work, span(16, 30, 17, 0)), "end boundary is inclusive")
	assert.False(t, Contains(work, span(8, 30, 9, 30)))
	assert.False(t, Contains(work, span(16, 45, 17, 15)))
}

func TestNew(t *testing.T) {
	_, err := New(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrEmptyInterval)

	_, err = New(at(11, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrEmptyInterval)

	iv, err := New(at(10, 0), at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, iv.Duration())
}

func TestDayOfWeek(t *testing.T) {
	sunday := time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DayOfWeek(sunday))
	assert.Equal(t, 1, DayOfWeek(sunday.AddDate(0, 0, 1)))
	assert.Equal(t, 6, DayOfWeek(saturday))
}

func TestSplit(t *testing.T) {
	t.Run("full day of half hour slots", func(t *testing.T) {
		slots := Split(span(9, 0, 17, 0), 30*time.Minute)
		require.Len(t, slots, 16)
		assert.Equal(t, span(9, 0, 9, 30), slots[0])
		assert.Equal(t, span(16, 30, 17, 0), slots[15])
	})

	t.Run("trailing partial slot is dropped", func(t *testing.T) {
		slots := Split(span(9, 0, 10, 45), 30*time.Minute)
		require.Len(t, slots, 3)
		assert.Equal(t, at(10, 30), slots[2].End)
	})

	t.Run("window shorter than step", func(t *testing.T) {
		assert.Empty(t, Split(span(9, 0, 9, 20), 30*time.Minute))
	})

	t.Run("non positive step", func(t *testing.T) {
		assert.Empty(t, Split(span(9, 0, 10, 0), 0))
	})
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 9, Minute: 5}, c)
	assert.Equal(t, "09:05", c.String())

	for _, bad := range []string{"", "9:00", "24:00", "12:60", "12-00", "ab:cd", "12:000"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, "should reject %q", bad)
	}

	start, _ := ParseClock("09:00")
	end, _ := ParseClock("17:00")
	assert.True(t, start.Before(end))
	assert.False(t, end.Before(start))
	assert.False(t, start.Before(start))
}

func TestWindowAndDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, loc)
	start, _ := ParseClock("09:00")
	end, _ := ParseClock("17:00")

	w, err := Window(date, start, end, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 4, 9, 0, 0, 0, loc), w.Start)
	assert.Equal(t, 8*time.Hour, w.Duration())

	_, err = Window(date, end, start, loc)
	assert.ErrorIs(t, err, ErrEmptyInterval)

	day := DayBounds(date.Add(15*time.Hour), loc)
	assert.Equal(t, date, day.Start)
	assert.Equal(t, date.AddDate(0, 0, 1), day.End)
}
