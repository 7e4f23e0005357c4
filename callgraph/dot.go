package callgraph

import (
	"fmt"
	"strconv"

	gv "github.com/awalterschulze/gographviz"
)

// DOT renders the call graph, with each node labeled by its SCC index,
// as Graphviz DOT text.
func (cg *CallGraph) DOT() (string, error) {
	cg.recomputeSCCs()

	g := gv.NewGraph()
	if err := g.SetName("callgraph"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	for f := range cg.nodes {
		scc := cg.funcToSCC[f]
		attrs := map[string]string{
			"label": strconv.Quote(fmt.Sprintf("%s (scc %d)", f.Name, scc.id)),
		}
		if err := g.AddNode("callgraph", dotID(f.Name), attrs); err != nil {
			return "", err
		}
	}
	for f, n := range cg.nodes {
		for _, e := range n.out {
			if e.Callee == nil {
				continue
			}
			if err := g.AddEdge(dotID(f.Name), dotID(e.Callee.Func.Name), true, nil); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}

func dotID(name string) string {
	return strconv.Quote(name)
}
