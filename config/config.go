// Package config holds the pass-wide knobs a run reads once at entry
// and treats as immutable for its duration.
package config

import "github.com/arneph/inliner/inline"

// Config is a plain struct of pass knobs, constructed once by the
// caller (CLI flags, a test, an embedder) and passed down by value.
type Config struct {
	// DisableAllocaMerging turns off inlined-alloca merging entirely;
	// TryInline still performs the inline, it just never consults the
	// alloca table.
	DisableAllocaMerging bool

	// ImportStats selects the inliner-function-import-stats mode.
	ImportStats inline.ImportStatsMode

	// InsertLifetime is passed straight through to InlineFunction.
	InsertLifetime bool

	// UseModernDriver selects the lazy-call-graph driver over the
	// worklist driver for every SCC.
	UseModernDriver bool

	// AlwaysInlineOnly restricts the end-of-pass sweep to functions
	// carrying AttrAlwaysInline.
	AlwaysInlineOnly bool
}

// Default returns a Config with every knob at its default: no import
// stats, alloca merging on, the worklist driver.
func Default() Config {
	return Config{
		ImportStats: inline.ImportStatsNone,
	}
}
