package schedule

import (
	"fmt"

	"github.com/orbitalmfg/reflow/engine/core"
)

// Validate proves a (typically just-reflowed) work order set is valid or
// returns every violation found, as a *core.MultiError, so a caller can
// diagnose every problem in one pass rather than fixing them one at a time.
func Validate(arith *Arithmetic, wos []WorkOrder, wcs map[string]*WorkCenter) error {
	var errs []*core.Error

	if _, err := Toposort(wos); err != nil {
		if ce, ok := err.(*core.Error); ok {
			errs = append(errs, ce)
		}
	}

	byID := make(map[string]*WorkOrder, len(wos))
	for i := range wos {
		byID[wos[i].DocID] = &wos[i]
	}

	for i := range wos {
		wo := &wos[i]
		for _, parentID := range wo.Data.DependsOnWorkOrderIDs {
			parent, ok := byID[parentID]
			if !ok {
				continue // dangling dependency is reported by Toposort (via buildGraph)
			}
			if parent.Data.EndDate.After(wo.Data.StartDate) {
				errs = append(errs, core.NewError(
					core.CodeDependencyViolation,
					fmt.Sprintf(
						"work order %q starts at %s before parent %q ends at %s",
						wo.DocID, wo.Data.StartDate, parentID, parent.Data.EndDate,
					),
					[]string{wo.DocID, parentID},
				))
			}
		}
	}

	byWorkCenter := make(map[string][]*WorkOrder, len(wcs))
	for i := range wos {
		wo := &wos[i]
		byWorkCenter[wo.Data.WorkCenterID] = append(byWorkCenter[wo.Data.WorkCenterID], wo)
	}

	for wcID, group := range byWorkCenter {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if Overlap(a.Data.StartDate, a.Data.EndDate, b.Data.StartDate, b.Data.EndDate) {
					errs = append(errs, core.NewError(
						core.CodeWorkCenterConflict,
						fmt.Sprintf(
							"work orders %q and %q overlap on work center %q",
							a.DocID, b.DocID, wcID,
						),
						[]string{a.DocID, b.DocID},
					))
				}
			}
		}
	}

	for i := range wos {
		wo := &wos[i]
		wc, ok := wcs[wo.Data.WorkCenterID]
		if !ok {
			errs = append(errs, core.NewError(
				core.CodeShiftViolation,
				fmt.Sprintf("work order %q references unknown work center %q", wo.DocID, wo.Data.WorkCenterID),
				[]string{wo.DocID},
			))
			continue
		}
		if len(wc.Data.Shifts) == 0 {
			errs = append(errs, core.NewError(
				core.CodeShiftViolation,
				fmt.Sprintf("work center %q has no shifts", wc.DocID),
				[]string{wo.DocID},
			))
			continue
		}
		if !arith.WithinShift(wc.DocID, wo.Data.StartDate, wc.Data.Shifts) {
			errs = append(errs, core.NewError(
				core.CodeShiftViolation,
				fmt.Sprintf("work order %q starts at %s outside any shift", wo.DocID, wo.Data.StartDate),
				[]string{wo.DocID},
			))
		}
		if OverlapsMaintenance(wo.Data.StartDate, wo.Data.EndDate, wc.Data.MaintenanceWindows) {
			errs = append(errs, core.NewError(
				core.CodeMaintenanceConflict,
				fmt.Sprintf("work order %q overlaps a maintenance window on %q", wo.DocID, wc.DocID),
				[]string{wo.DocID},
			))
		}
	}

	if me := core.NewMultiError(errs); me != nil {
		return me
	}
	return nil
}
