package schedule

// Caps bounds every loop in the engine that would otherwise spin forever
// against a misconfigured work center (e.g. a shift with startHour ==
// endHour on every day). Defaults give shift/slot-search loops 1000
// iterations and the next-shift scan 100 days, generous enough for any
// realistic work center while still failing fast on a degenerate one.
type Caps struct {
	MaxShiftIterations      int `koanf:"max_shift_iterations"`
	MaxSlotSearchIterations int `koanf:"max_slot_search_iterations"`
	MaxNextShiftScanDays    int `koanf:"max_next_shift_scan_days"`
}

func DefaultCaps() Caps {
	return Caps{
		MaxShiftIterations:      1000,
		MaxSlotSearchIterations: 1000,
		MaxNextShiftScanDays:    100,
	}
}
