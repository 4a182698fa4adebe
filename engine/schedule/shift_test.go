package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustArith(t *testing.T) *Arithmetic {
	t.Helper()
	a, err := NewArithmetic(DefaultCaps(), 1)
	require.NoError(t, err)
	return a
}

func weekdayShifts() []Shift {
	shifts := make([]Shift, 0, 5)
	for day := 1; day <= 5; day++ { // Monday .. Friday
		shifts = append(shifts, Shift{DayOfWeek: day, StartHour: 8, EndHour: 16})
	}
	return shifts
}

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestArithmetic_WithinShift(t *testing.T) {
	a := mustArith(t)
	shifts := weekdayShifts()

	t.Run("Should accept an instant inside a weekday shift", func(t *testing.T) {
		// 2026-08-03 is a Monday.
		assert.True(t, a.WithinShift("wc1", date(2026, 8, 3, 9, 0), shifts))
	})

	t.Run("Should reject an instant before the shift starts", func(t *testing.T) {
		assert.False(t, a.WithinShift("wc1", date(2026, 8, 3, 7, 59), shifts))
	})

	t.Run("Should reject an instant at or after the shift ends", func(t *testing.T) {
		assert.False(t, a.WithinShift("wc1", date(2026, 8, 3, 16, 0), shifts))
	})

	for day := 0; day <= 6; day++ {
		day := day
		t.Run("Should evaluate every day of the week consistently", func(t *testing.T) {
			// 2026-08-02 is a Sunday (day 0); walk forward to cover all seven.
			base := date(2026, 8, 2, 9, 0).AddDate(0, 0, day)
			want := day >= 1 && day <= 5
			assert.Equal(t, want, a.WithinShift("wc1", base, shifts))
		})
	}
}

func TestArithmetic_EndAfterWorking(t *testing.T) {
	shifts := weekdayShifts()

	t.Run("Should return start unchanged for zero duration", func(t *testing.T) {
		a := mustArith(t)
		start := date(2026, 8, 3, 9, 0)
		end, err := a.EndAfterWorking("wc1", start, 0, shifts)
		require.NoError(t, err)
		assert.True(t, end.Equal(start))
	})

	t.Run("Should stay inside the shift when duration fits", func(t *testing.T) {
		a := mustArith(t)
		start := date(2026, 8, 3, 9, 0)
		end, err := a.EndAfterWorking("wc1", start, 60, shifts)
		require.NoError(t, err)
		assert.True(t, end.Equal(date(2026, 8, 3, 10, 0)))
	})

	t.Run("Should pause over the weekend and resume Monday", func(t *testing.T) {
		a := mustArith(t)
		// Friday 15:00, 2 hours of work: 1h to close Friday, 1h into Monday.
		start := date(2026, 8, 7, 15, 0)
		end, err := a.EndAfterWorking("wc1", start, 120, shifts)
		require.NoError(t, err)
		assert.True(t, end.Equal(date(2026, 8, 10, 9, 0)))
	})

	t.Run("Should reuse the cached shift index across repeated calls", func(t *testing.T) {
		a := mustArith(t)
		start := date(2026, 8, 3, 9, 0)
		first, err := a.EndAfterWorking("wc1", start, 30, shifts)
		require.NoError(t, err)
		second, err := a.EndAfterWorking("wc1", start, 30, shifts)
		require.NoError(t, err)
		assert.True(t, first.Equal(second))
	})
}

func TestArithmetic_NextShiftStart(t *testing.T) {
	shifts := weekdayShifts()

	t.Run("Should return the same instant when already at shift start", func(t *testing.T) {
		a := mustArith(t)
		start := date(2026, 8, 3, 8, 0)
		next, err := a.NextShiftStart("wc1", start, shifts)
		require.NoError(t, err)
		assert.True(t, next.Equal(start))
	})

	t.Run("Should roll over the weekend to Monday", func(t *testing.T) {
		a := mustArith(t)
		next, err := a.NextShiftStart("wc1", date(2026, 8, 8, 12, 0), shifts) // Saturday
		require.NoError(t, err)
		assert.True(t, next.Equal(date(2026, 8, 10, 8, 0)))
	})

	t.Run("Should error when the work center has no shifts", func(t *testing.T) {
		a := mustArith(t)
		_, err := a.NextShiftStart("wc1", date(2026, 8, 3, 9, 0), nil)
		require.Error(t, err)
	})
}

func TestOverlap(t *testing.T) {
	t.Run("Should treat adjacent intervals as non-overlapping", func(t *testing.T) {
		a0, a1 := date(2026, 8, 3, 8, 0), date(2026, 8, 3, 9, 0)
		b0, b1 := date(2026, 8, 3, 9, 0), date(2026, 8, 3, 10, 0)
		assert.False(t, Overlap(a0, a1, b0, b1))
	})

	t.Run("Should detect a genuine overlap", func(t *testing.T) {
		a0, a1 := date(2026, 8, 3, 8, 0), date(2026, 8, 3, 9, 30)
		b0, b1 := date(2026, 8, 3, 9, 0), date(2026, 8, 3, 10, 0)
		assert.True(t, Overlap(a0, a1, b0, b1))
	})
}
