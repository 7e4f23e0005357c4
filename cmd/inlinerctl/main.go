// Command inlinerctl is a small demo driver for the inliner core: it
// builds one of a handful of built-in scenarios (see scenarios.go),
// runs one inlining pass over it, and prints a colorized summary of
// what happened.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/arneph/inliner/api"
	"github.com/arneph/inliner/config"
	"github.com/arneph/inliner/cost"
	"github.com/arneph/inliner/inline"
	"github.com/arneph/inliner/inline/ssamutate"
)

var (
	scenarioName   = flag.String("scenario", "trivial", "demo scenario to run; -list to see all")
	list           = flag.Bool("list", false, "list available scenarios and exit")
	modern         = flag.Bool("modern", false, "use the lazy-call-graph driver instead of the worklist driver")
	noAllocaMerge  = flag.Bool("disable-inlined-alloca-merging", false, "disable inlined-alloca merging")
	importStatsStr = flag.String("inliner-function-import-stats", "No", "one of No, Basic, Verbose")
	insertLifetime = flag.Bool("insert-lifetime", false, "pass insertLifetime through to the IR mutator")
	alwaysOnly     = flag.Bool("always-inline-only", false, "restrict the end-of-pass sweep to AttrAlwaysInline functions")
	dumpCallgraph  = flag.Bool("dump-callgraph", false, "print the post-pass call graph as Graphviz DOT")
	baseThreshold  = flag.Int("threshold", 225, "HeuristicModel base inlining threshold")
	costPerInst    = flag.Int("cost-per-inst", 5, "HeuristicModel cost charged per callee instruction")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: inlinerctl [flags]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		fmt.Print(listScenarios())
		return
	}

	s, ok := scenarioByName(*scenarioName)
	if !ok {
		pterm.Error.Printfln("unknown scenario %q; run with -list to see available scenarios", *scenarioName)
		os.Exit(1)
	}

	mode, err := parseImportStatsMode(*importStatsStr)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	module, entryPoints := s.build()

	constants := cost.Constants{CallPenalty: 5, LastCallToStaticBonus: 15000}
	model := cost.NewHeuristicModel(module, constants, *baseThreshold, *costPerInst)

	cfg := config.Config{
		DisableAllocaMerging: *noAllocaMerge,
		ImportStats:          mode,
		InsertLifetime:       *insertLifetime,
		UseModernDriver:      *modern,
		AlwaysInlineOnly:     *alwaysOnly,
	}
	deps := api.Deps{
		CostModel:   model,
		Mutator:     ssamutate.New(),
		EntryPoints: entryPoints,
	}

	pterm.DefaultSection.Println("inlinerctl: " + s.name)
	pterm.Info.Println(s.description)

	outcome := api.Run(module, deps, cfg)

	printRemarks(outcome.Log)
	printStats(outcome.Stats)

	if mode != inline.ImportStatsNone && outcome.ImportStats != nil {
		pterm.DefaultSection.Println("import stats")
		fmt.Print(outcome.ImportStats.Summary())
	}

	if *dumpCallgraph {
		dot, err := outcome.Graph.DOT()
		if err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		pterm.DefaultSection.Println("call graph (DOT)")
		fmt.Println(dot)
	}

	switch outcome.Result {
	case api.RunSuccessful:
		pterm.Success.Println("pass completed")
	case api.RunSuccessfulButWithWarnings:
		pterm.Warning.Println("pass completed with warnings")
	default:
		pterm.Error.Println("pass failed: invalid input")
		os.Exit(1)
	}
}

func parseImportStatsMode(s string) (inline.ImportStatsMode, error) {
	switch s {
	case "No":
		return inline.ImportStatsNone, nil
	case "Basic":
		return inline.ImportStatsBasic, nil
	case "Verbose":
		return inline.ImportStatsVerbose, nil
	default:
		return inline.ImportStatsNone, fmt.Errorf("inliner-function-import-stats must be one of No, Basic, Verbose, got %q", s)
	}
}

func printRemarks(log *inline.Log) {
	if log == nil || len(log.Remarks) == 0 {
		return
	}
	pterm.DefaultSection.Println("remarks")
	rows := pterm.TableData{{"reason", "callee", "caller", "cost", "threshold"}}
	for _, r := range log.Remarks {
		rows = append(rows, []string{
			string(r.Reason), r.Callee, r.Caller,
			fmt.Sprintf("%d", r.Cost), fmt.Sprintf("%d", r.Threshold),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func printStats(stats *inline.Stats) {
	if stats == nil {
		return
	}
	pterm.DefaultSection.Println("stats")
	rows := pterm.TableData{
		{"counter", "value"},
		{"NumInlined", fmt.Sprintf("%d", stats.NumInlined)},
		{"NumCallsDeleted", fmt.Sprintf("%d", stats.NumCallsDeleted)},
		{"NumDeleted", fmt.Sprintf("%d", stats.NumDeleted)},
		{"NumMergedAllocas", fmt.Sprintf("%d", stats.NumMergedAllocas)},
		{"NumCallerCallersAnalyzed", fmt.Sprintf("%d", stats.NumCallerCallersAnalyzed)},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
