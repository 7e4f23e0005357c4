// Package api wires the IR, call graph, cost model and inline drivers
// together into a single pass invocation.
package api

import (
	"fmt"
	"os"

	"github.com/arneph/inliner/callgraph"
	"github.com/arneph/inliner/config"
	"github.com/arneph/inliner/cost"
	"github.com/arneph/inliner/inline"
	"github.com/arneph/inliner/ir"
)

// fanoutSink emits every remark to each of its members, so Run can keep
// its own in-memory log for the warning check below even when the
// caller supplies their own Sink.
type fanoutSink []inline.Sink

func (f fanoutSink) Emit(r inline.Remark) {
	for _, s := range f {
		s.Emit(r)
	}
}

// Result indicates how Run concluded.
type Result int

const (
	// RunSuccessful indicates the pass completed without issue.
	RunSuccessful Result = iota
	// RunSuccessfulButWithWarnings indicates the pass completed but at
	// least one call site was refused for a reason worth surfacing
	// (e.g. the IR mutator itself declined a call the cost gate
	// accepted).
	RunSuccessfulButWithWarnings
	// RunFailedWithInvalidInput indicates module, the cost model or the
	// mutator was nil.
	RunFailedWithInvalidInput
)

// Deps bundles the pluggable collaborators a pass invocation needs:
// the cost model and the IR mutation primitive are mandatory; the rest
// default to harmless no-ops.
type Deps struct {
	CostModel       cost.Model
	Mutator         inline.IRMutator
	AA              inline.AAGetter
	AssumptionCache inline.AssumptionCacheGetter
	TLI             inline.TargetLibraryInfo
	Sink            inline.Sink

	// EntryPoints are the functions reachable from outside the module
	// (exported API, test entry points, ...); they seed the call
	// graph's external node so they're never mistaken for dead code.
	EntryPoints []*ir.Function
}

// Outcome carries everything a caller (CLI, test) might want to inspect
// after a pass completes.
type Outcome struct {
	Result      Result
	Stats       *inline.Stats
	Log         *inline.Log
	ImportStats *inline.ImportStats
	Graph       *callgraph.CallGraph
}

// Run performs one inlining pass over module using the given deps and
// config, mutating module in place.
func Run(module *ir.Module, deps Deps, cfg config.Config) Outcome {
	if module == nil || deps.CostModel == nil || deps.Mutator == nil {
		fmt.Fprintln(os.Stderr, "api: module and cost model/mutator are required")
		return Outcome{Result: RunFailedWithInvalidInput}
	}

	log := inline.NewLog()
	var sink inline.Sink = log
	if deps.Sink != nil {
		sink = fanoutSink{log, deps.Sink}
	}

	stats := &inline.Stats{}
	history := inline.NewHistory()
	importStats := inline.NewImportStats(cfg.ImportStats)

	constants := cost.Constants{CallPenalty: 5, LastCallToStaticBonus: 15000}
	if hm, ok := deps.CostModel.(*cost.HeuristicModel); ok {
		constants = hm.Constants
	}

	gate := &inline.CostGate{
		Model:     deps.CostModel,
		Constants: constants,
		Module:    module,
		Sink:      sink,
		Stats:     stats,
	}

	action := &inline.Action{
		Mutator:         deps.Mutator,
		AA:              deps.AA,
		AssumptionCache: deps.AssumptionCache,
		InsertLifetime:  cfg.InsertLifetime,
		Sink:            sink,
		Stats:           stats,
		History:         history,
		ImportStats:     importStats,
	}

	graph := callgraph.Build(module, deps.EntryPoints...)

	if cfg.UseModernDriver {
		driver := &inline.Modern{
			Module:   module,
			Graph:    graph,
			CostGate: gate,
			Action:   action,
			History:  history,
			Stats:    stats,
		}
		for _, scc := range graph.SCCs() {
			driver.RunSCC(scc)
		}
	} else {
		driver := &inline.Legacy{
			Module:        module,
			Graph:         graph,
			CostGate:      gate,
			Action:        action,
			History:       history,
			Stats:         stats,
			NoAllocaMerge: cfg.DisableAllocaMerging,
			TLI:           deps.TLI,
		}
		for _, scc := range graph.SCCs() {
			driver.RunSCC(scc)
		}
	}

	sweeper := &inline.Sweeper{
		Module:           module,
		Graph:            graph,
		Stats:            stats,
		AlwaysInlineOnly: cfg.AlwaysInlineOnly,
	}
	sweeper.Sweep()

	result := RunSuccessful
	if len(log.ByReason(inline.ReasonNotInlined)) > 0 {
		result = RunSuccessfulButWithWarnings
	}

	return Outcome{
		Result:      result,
		Stats:       stats,
		Log:         log,
		ImportStats: importStats,
		Graph:       graph,
	}
}
