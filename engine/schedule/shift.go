package schedule

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/robfig/cron/v3"
)

// Arithmetic performs shift-aware duration math for one work-center set. It
// is created fresh per Reflow call — never as a package-level singleton —
// so that independent concurrent calls share nothing.
type Arithmetic struct {
	caps  Caps
	index *lru.Cache[string, map[int]Shift]
}

// NewArithmetic builds an Arithmetic sized for workCenterCount distinct
// work centers. The shift index cache holds one entry per work center (a
// map[dayOfWeek]Shift), avoiding a repeated linear scan of Shifts on every
// one of the potentially thousands of work order iterations that touch the
// same work center.
func NewArithmetic(caps Caps, workCenterCount int) (*Arithmetic, error) {
	size := workCenterCount
	if size < 1 {
		size = 1
	}
	cache, err := lru.New[string, map[int]Shift](size)
	if err != nil {
		return nil, fmt.Errorf("building shift index cache: %w", err)
	}
	return &Arithmetic{
		caps:  caps,
		index: cache,
	}, nil
}

func (a *Arithmetic) shiftIndex(wcID string, shifts []Shift) map[int]Shift {
	if idx, ok := a.index.Get(wcID); ok {
		return idx
	}
	idx := make(map[int]Shift, len(shifts))
	for _, s := range shifts {
		idx[s.DayOfWeek] = s
	}
	a.index.Add(wcID, idx)
	return idx
}

func (s Shift) bounds(onDay time.Time) (start, end time.Time) {
	y, m, d := onDay.UTC().Date()
	start = time.Date(y, m, d, s.StartHour, 0, 0, 0, time.UTC)
	end = time.Date(y, m, d, s.EndHour, 0, 0, 0, time.UTC)
	return start, end
}

func startOfNextDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// Overlap reports whether half-open intervals [a0,a1) and [b0,b1) overlap.
// Adjacent intervals (a1 == b0) do not overlap.
func Overlap(a0, a1, b0, b1 time.Time) bool {
	return a0.Before(b1) && b0.Before(a1)
}

// OverlapsMaintenance reports whether [start,end) intersects any window.
func OverlapsMaintenance(start, end time.Time, windows []MaintenanceWindow) bool {
	for _, w := range windows {
		if Overlap(start, end, w.Start, w.End) {
			return true
		}
	}
	return false
}

// WithinShift reports whether instant t falls inside a scheduled shift
// window on its day. Callers only need to check the start instant of a
// work order this way — the duration-inside-shift property is guaranteed
// structurally by EndAfterWorking.
func (a *Arithmetic) WithinShift(wcID string, t time.Time, shifts []Shift) bool {
	idx := a.shiftIndex(wcID, shifts)
	shift, ok := idx[int(t.UTC().Weekday())]
	if !ok {
		return false
	}
	start, end := shift.bounds(t)
	return !t.Before(start) && t.Before(end)
}

// EndAfterWorking computes the first instant at which durationMinutes of
// shift-inside time has elapsed starting at or after start. durationMinutes
// == 0 returns start unchanged, without shift alignment.
func (a *Arithmetic) EndAfterWorking(
	wcID string,
	start time.Time,
	durationMinutes int,
	shifts []Shift,
) (time.Time, error) {
	if durationMinutes == 0 {
		return start, nil
	}
	idx := a.shiftIndex(wcID, shifts)
	cursor := start.UTC()
	remaining := durationMinutes
	for iterations := 0; remaining > 0; iterations++ {
		if iterations > a.caps.MaxShiftIterations {
			return time.Time{}, fmt.Errorf(
				"end_after_working exceeded %d iterations for work center %q",
				a.caps.MaxShiftIterations, wcID,
			)
		}
		shift, ok := idx[int(cursor.Weekday())]
		if !ok {
			cursor = startOfNextDay(cursor)
			continue
		}
		shiftStart, shiftEnd := shift.bounds(cursor)
		if cursor.Before(shiftStart) {
			cursor = shiftStart
		}
		if !cursor.Before(shiftEnd) {
			cursor = startOfNextDay(cursor)
			continue
		}
		available := int(shiftEnd.Sub(cursor) / time.Minute)
		if available >= remaining {
			cursor = cursor.Add(time.Duration(remaining) * time.Minute)
			remaining = 0
		} else {
			remaining -= available
			cursor = startOfNextDay(cursor)
		}
	}
	return cursor, nil
}

// NextShiftStart returns the smallest instant >= from that equals the
// shiftStart of some scheduled day. Each configured shift day is expressed
// as a standard cron schedule ("0 <startHour> * * <dayOfWeek>") and the
// cheapest of their cron.Schedule.Next results wins, turning a day-by-day
// scan into a handful of schedule evaluations.
func (a *Arithmetic) NextShiftStart(wcID string, from time.Time, shifts []Shift) (time.Time, error) {
	idx := a.shiftIndex(wcID, shifts)
	if len(idx) == 0 {
		return time.Time{}, fmt.Errorf("work center %q has no shifts", wcID)
	}
	from = from.UTC()
	var best time.Time
	for _, shift := range idx {
		expr := fmt.Sprintf("0 %d * * %d", shift.StartHour, shift.DayOfWeek)
		sched, err := cron.ParseStandard(expr)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid shift cron expression %q: %w", expr, err)
		}
		// cron.Schedule.Next returns the first activation strictly after
		// the given instant; step back one second so an exact match on
		// `from` itself is still returned (next_shift_start is inclusive).
		candidate := sched.Next(from.Add(-time.Second))
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	maxHorizon := from.AddDate(0, 0, a.caps.MaxNextShiftScanDays)
	if best.After(maxHorizon) {
		return time.Time{}, fmt.Errorf(
			"next_shift_start for work center %q exceeded %d day horizon",
			wcID, a.caps.MaxNextShiftScanDays,
		)
	}
	return best, nil
}
