package domtree

import "github.com/corelift/pcode/pkg/cfg"

// Frontier computes the dominance frontier of every block: for each
// block B with ≥2 predecessors, walk each predecessor up the idom chain,
// adding B to DF(walker) until walker == idom(B) (SPEC_FULL §4.4).
func Frontier(g *cfg.Graph, t *Tree) [][]int {
	df := make([][]int, len(g.Blocks))
	seen := make([]map[int]bool, len(g.Blocks))
	for i := range seen {
		seen[i] = map[int]bool{}
	}
	for b := range g.Blocks {
		if len(g.Blocks[b].Preds) < 2 {
			continue
		}
		idomB := t.Idom[b]
		for _, p := range g.Blocks[b].Preds {
			if t.Idom[p] < 0 {
				continue // unreachable predecessor
			}
			walker := p
			for walker != idomB {
				if !seen[walker][b] {
					seen[walker][b] = true
					df[walker] = append(df[walker], b)
				}
				if t.Idom[walker] == walker {
					break // reached root without meeting idom(B); stop
				}
				walker = t.Idom[walker]
			}
		}
	}
	return df
}
