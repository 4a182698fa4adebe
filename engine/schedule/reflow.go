package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orbitalmfg/reflow/engine/core"
	"github.com/orbitalmfg/reflow/pkg/logger"
)

// Option customizes a single Reflow call.
type Option func(*runOptions)

type runOptions struct {
	caps Caps
}

// WithCaps overrides the default safety-cap bounds. Use this only for
// degenerate test fixtures; production callers should accept the defaults.
func WithCaps(caps Caps) Option {
	return func(o *runOptions) { o.caps = caps }
}

// Reflow rewrites work order start/end times into a valid schedule and
// returns the updated orders plus a change list. ctx is used only to carry
// a logger and is never selected on or checked for cancellation — the
// algorithm is synchronous and runs to completion or failure in one pass.
func Reflow(ctx context.Context, input Input, opts ...Option) (*Output, error) {
	options := runOptions{caps: DefaultCaps()}
	for _, opt := range opts {
		opt(&options)
	}

	runID := uuid.New().String()
	log := logger.FromContext(ctx)
	log.Info("reflow started", "runId", runID, "workOrders", len(input.WorkOrders))

	wos := make([]WorkOrder, len(input.WorkOrders))
	copy(wos, input.WorkOrders)

	sorted, err := Toposort(wos)
	if err != nil {
		log.Error("reflow aborted before scheduling", "runId", runID, "error", err)
		return nil, err
	}

	wcs := make(map[string]*WorkCenter, len(input.WorkCenters))
	for i := range input.WorkCenters {
		wcs[input.WorkCenters[i].DocID] = &input.WorkCenters[i]
	}

	byID := make(map[string]*WorkOrder, len(wos))
	byWorkCenter := make(map[string][]*WorkOrder, len(wcs))
	for i := range wos {
		byID[wos[i].DocID] = &wos[i]
	}
	for i := range wos {
		wcID := wos[i].Data.WorkCenterID
		byWorkCenter[wcID] = append(byWorkCenter[wcID], &wos[i])
	}

	arith, err := NewArithmetic(options.caps, len(wcs))
	if err != nil {
		return nil, err
	}

	var changes []WorkOrderChange
	for _, id := range sorted {
		wo := byID[id]
		if wo.Data.IsMaintenance {
			continue // maintenance work orders are immovable and never rescheduled
		}
		wc, ok := wcs[wo.Data.WorkCenterID]
		if !ok {
			return nil, core.NewError(
				core.CodeShiftViolation,
				fmt.Sprintf("work order %q references unknown work center %q", wo.DocID, wo.Data.WorkCenterID),
				[]string{wo.DocID},
			)
		}

		originalStart := wo.Data.StartDate
		originalEnd := wo.Data.EndDate

		newStart, reason, err := earliestStart(wo, byID, wc, byWorkCenter[wc.DocID], arith, options.caps)
		if err != nil {
			return nil, core.NewError(core.CodeSafetyCap, err.Error(), []string{wo.DocID}).Wrap(err)
		}

		if newStart.Equal(originalStart) {
			continue
		}

		newEnd, err := arith.EndAfterWorking(wc.DocID, newStart, wo.Data.DurationMinutes, wc.Data.Shifts)
		if err != nil {
			return nil, core.NewError(core.CodeSafetyCap, err.Error(), []string{wo.DocID}).Wrap(err)
		}

		wo.Data.StartDate = newStart
		wo.Data.EndDate = newEnd

		change := WorkOrderChange{
			WorkOrderID:       wo.DocID,
			WorkOrderNumber:   wo.Data.WorkOrderNumber,
			OriginalStartDate: originalStart,
			OriginalEndDate:   originalEnd,
			NewStartDate:      newStart,
			NewEndDate:        newEnd,
			DelayMinutes:      int(newEnd.Sub(originalEnd) / time.Minute),
			Reason:            reason,
		}
		changes = append(changes, change)
		log.Info("work order rescheduled",
			"runId", runID,
			"workOrderId", wo.DocID,
			"delayMinutes", change.DelayMinutes,
			"reason", reason,
		)
	}

	if err := Validate(arith, wos, wcs); err != nil {
		log.Warn("reflow produced an invalid schedule", "runId", runID, "error", err)
		return nil, err
	}

	metrics, explanation := assembleResult(changes, wos, wcs)
	log.Info("reflow completed", "runId", runID, "changes", len(changes))

	return &Output{
		UpdatedWorkOrders: wos,
		Changes:           changes,
		Explanation:       explanation,
		Metrics:           metrics,
	}, nil
}

// earliestStart computes the earliest start time for wo that satisfies its
// dependency floor, shift alignment, and work-center/maintenance
// availability. byID must reflect already-mutated parents.
func earliestStart(
	wo *WorkOrder,
	byID map[string]*WorkOrder,
	wc *WorkCenter,
	sameWorkCenter []*WorkOrder,
	arith *Arithmetic,
	caps Caps,
) (time.Time, string, error) {
	t := wo.Data.StartDate
	reason := ""

	for _, parentID := range wo.Data.DependsOnWorkOrderIDs {
		parent, ok := byID[parentID]
		if !ok {
			continue
		}
		if parent.Data.EndDate.After(t) {
			t = parent.Data.EndDate
			reason = fmt.Sprintf("waiting on dependency %s to complete", parentID)
		}
	}

	for iterations := 0; ; iterations++ {
		if iterations > caps.MaxSlotSearchIterations {
			return time.Time{}, "", fmt.Errorf(
				"earliest-start search for work order %q exceeded %d iterations",
				wo.DocID, caps.MaxSlotSearchIterations,
			)
		}

		if !arith.WithinShift(wc.DocID, t, wc.Data.Shifts) {
			aligned, err := arith.NextShiftStart(wc.DocID, t, wc.Data.Shifts)
			if err != nil {
				return time.Time{}, "", err
			}
			if !aligned.Equal(t) && reason == "" {
				reason = "aligned to next shift start"
			}
			t = aligned
		}

		end, err := arith.EndAfterWorking(wc.DocID, t, wo.Data.DurationMinutes, wc.Data.Shifts)
		if err != nil {
			return time.Time{}, "", err
		}

		blockerEnd, blocked, blockReason := firstBlocker(t, end, sameWorkCenter, wo.DocID, wc.Data.MaintenanceWindows)
		if !blocked {
			return t, reasonOrDefault(reason), nil
		}

		reason = blockReason
		if !blockerEnd.After(t) {
			// Defensive: no blocker actually overlaps the candidate
			// interval. Force progress rather than loop in place.
			t = t.Add(time.Hour)
			continue
		}
		t = blockerEnd
	}
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "rescheduled"
	}
	return reason
}

// firstBlocker returns the earliest end time among every interval
// (work-center occupant or maintenance window) that overlaps [start,end),
// so the next candidate is the soonest moment a blocker clears, not the
// moment every blocker has cleared.
func firstBlocker(
	start, end time.Time,
	sameWorkCenter []*WorkOrder,
	selfID string,
	maintenance []MaintenanceWindow,
) (blockerEnd time.Time, blocked bool, reason string) {
	consider := func(candidateEnd time.Time, candidateReason string) {
		if !blocked || candidateEnd.Before(blockerEnd) {
			blockerEnd = candidateEnd
			reason = candidateReason
		}
		blocked = true
	}
	for _, other := range sameWorkCenter {
		if other.DocID == selfID {
			continue
		}
		if Overlap(start, end, other.Data.StartDate, other.Data.EndDate) {
			consider(other.Data.EndDate, fmt.Sprintf("work center occupied by %s", other.DocID))
		}
	}
	for _, w := range maintenance {
		if Overlap(start, end, w.Start, w.End) {
			consider(w.End, "maintenance window conflict")
		}
	}
	return blockerEnd, blocked, reason
}
