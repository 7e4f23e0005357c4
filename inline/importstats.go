package inline

import "fmt"

// ImportStatsMode selects how much detail ImportStats records.
type ImportStatsMode int

const (
	// ImportStatsNone disables collection entirely, the default.
	ImportStatsNone ImportStatsMode = iota
	// ImportStatsBasic records only aggregate counts per callee.
	ImportStatsBasic
	// ImportStatsVerbose additionally records every caller a callee was
	// imported into.
	ImportStatsVerbose
)

// ImportStats accumulates, for every inlined callee, how many times and
// (in Verbose mode) into which callers it was imported over the
// lifetime of one pass.
type ImportStats struct {
	Mode ImportStatsMode

	counts  map[string]int
	callers map[string][]string
}

// NewImportStats creates a collector in the given mode.
func NewImportStats(mode ImportStatsMode) *ImportStats {
	return &ImportStats{
		Mode:    mode,
		counts:  make(map[string]int),
		callers: make(map[string][]string),
	}
}

// Record notes that calleeName was inlined into callerName. A no-op in
// ImportStatsNone mode.
func (s *ImportStats) Record(calleeName, callerName string) {
	switch s.Mode {
	case ImportStatsNone:
		return
	case ImportStatsBasic:
		s.counts[calleeName]++
	case ImportStatsVerbose:
		s.counts[calleeName]++
		s.callers[calleeName] = append(s.callers[calleeName], callerName)
	}
}

// Count returns how many times calleeName was imported.
func (s *ImportStats) Count(calleeName string) int {
	return s.counts[calleeName]
}

// Summary renders a human-readable end-of-pass report matching the
// configured mode.
func (s *ImportStats) Summary() string {
	out := ""
	for callee, n := range s.counts {
		out += fmt.Sprintf("%s: imported %d time(s)\n", callee, n)
		if s.Mode == ImportStatsVerbose {
			for _, caller := range s.callers[callee] {
				out += fmt.Sprintf("  into %s\n", caller)
			}
		}
	}
	return out
}
