package schedule

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// assembleResult computes delay metrics, per-work-center utilization, and a
// one-line textual explanation from a completed reflow pass.
func assembleResult(changes []WorkOrderChange, wos []WorkOrder, wcs map[string]*WorkCenter) (Metrics, string) {
	totalDelay := 0
	for _, c := range changes {
		if c.DelayMinutes > 0 {
			totalDelay += c.DelayMinutes
		}
	}

	durationByWC := make(map[string]int, len(wcs))
	for _, wo := range wos {
		durationByWC[wo.Data.WorkCenterID] += wo.Data.DurationMinutes
	}

	utilization := make(map[string]float64, len(wcs))
	for id, wc := range wcs {
		capacityMinutes := 0
		for _, s := range wc.Data.Shifts {
			capacityMinutes += (s.EndHour - s.StartHour) * 60
		}
		utilization[id] = utilizationPercent(durationByWC[id], capacityMinutes)
	}

	metrics := Metrics{
		TotalDelayMinutes:     totalDelay,
		WorkOrdersAffected:    len(changes),
		WorkCenterUtilization: utilization,
	}

	return metrics, explanation(changes, totalDelay)
}

// utilizationPercent computes 100 * worked / capacity, rounded to 1/100,
// using decimal arithmetic so the documented rounding contract is exact
// regardless of platform float rounding. A zero denominator yields 0.
func utilizationPercent(workedMinutes, capacityMinutes int) float64 {
	if capacityMinutes == 0 {
		return 0
	}
	worked := decimal.NewFromInt(int64(workedMinutes))
	capacity := decimal.NewFromInt(int64(capacityMinutes))
	pct := worked.Mul(decimal.NewFromInt(100)).Div(capacity).Round(2)
	f, _ := pct.Float64()
	return f
}

func explanation(changes []WorkOrderChange, totalDelay int) string {
	if len(changes) == 0 {
		return "No changes needed"
	}
	avg := float64(totalDelay) / float64(len(changes))
	return fmt.Sprintf(
		"Rescheduled %d. Total delay %d. Average %.2f.",
		len(changes), totalDelay, avg,
	)
}
