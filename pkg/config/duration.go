package config

import (
	"fmt"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// logBudgetSuffixes maps a singular/plural English unit word to the Go
// duration suffix it corresponds to, so an operator can write "90 seconds"
// in an env var instead of memorizing Go's compact "90s" syntax.
var logBudgetSuffixes = map[string]string{
	"second": "s", "seconds": "s",
	"minute": "m", "minutes": "m",
	"hour": "h", "hours": "h",
}

// parseLogBudget resolves the LogBudget setting into a time.Duration. It
// accepts anything time.ParseDuration already understands ("90s", "1h30m"),
// a single "<n> <unit>" phrase ("2 hours"), and falls back to
// go-str2duration for compact strings with day or week units like "1d2h3m",
// which time.ParseDuration has no native support for.
func parseLogBudget(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if rewritten, ok := rewriteSingleUnitPhrase(s); ok {
		if d, err := time.ParseDuration(rewritten); err == nil {
			return d, nil
		}
	}
	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing log_budget %q: %w", s, err)
	}
	return d, nil
}

func rewriteSingleUnitPhrase(s string) (string, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", false
	}
	suffix, ok := logBudgetSuffixes[fields[1]]
	if !ok {
		return "", false
	}
	return fields[0] + suffix, true
}
