// Package loopanalysis discovers natural loops and their nesting
// structure from a CFG's back edges (spec.md §4.5).
package loopanalysis

import (
	"sort"

	"midend/internal/cfg"
)

// Loop is a natural loop: a header block and the set of blocks in its
// body, discovered from one or more back edges sharing that header.
type Loop struct {
	Header   int
	Body     map[int]bool
	Latches  map[int]bool
	Exits    []int
	Parent   *Loop
	Children []*Loop
}

// Contains reports whether block id b is in the loop's body.
func (l *Loop) Contains(b int) bool { return l.Body[b] }

// Forest holds every discovered loop plus a fast header lookup.
type Forest struct {
	Loops    []*Loop
	ByHeader map[int]*Loop
}

// LoopOf returns the innermost loop containing block b, or nil.
func (f *Forest) LoopOf(b int) *Loop {
	var best *Loop
	for _, l := range f.Loops {
		if l.Contains(b) {
			if best == nil || len(l.Body) < len(best.Body) {
				best = l
			}
		}
	}
	return best
}

// Analyze finds back edges by rank comparison (spec.md §4.5: an edge
// (B,S) is a back edge iff rank(S) <= rank(B)), builds one natural
// loop per distinct header, and computes the nesting forest.
func Analyze(g *cfg.Graph) *Forest {
	backEdgesByHeader := map[int][]int{}
	for _, b := range g.RankOrder {
		bRank := g.Block(b).Rank
		for _, s := range g.Succs[b] {
			if g.Block(s).Rank <= bRank {
				backEdgesByHeader[s] = append(backEdgesByHeader[s], b)
			}
		}
	}

	var headers []int
	for h := range backEdgesByHeader {
		headers = append(headers, h)
	}
	sort.Ints(headers)

	f := &Forest{ByHeader: map[int]*Loop{}}
	for _, header := range headers {
		latches := backEdgesByHeader[header]
		loop := &Loop{Header: header, Body: naturalLoopBody(g, header, latches), Latches: map[int]bool{}}
		for _, l := range latches {
			loop.Latches[l] = true
		}
		loop.Exits = computeExits(g, loop)
		f.Loops = append(f.Loops, loop)
		f.ByHeader[header] = loop
	}

	sort.Slice(f.Loops, func(i, j int) bool { return len(f.Loops[i].Body) < len(f.Loops[j].Body) })
	for i, inner := range f.Loops {
		for j := i + 1; j < len(f.Loops); j++ {
			outer := f.Loops[j]
			if outer.Body[inner.Header] {
				inner.Parent = outer
				outer.Children = append(outer.Children, inner)
				break
			}
		}
	}
	return f
}

// naturalLoopBody walks predecessors backward from every latch,
// stopping at the header, per spec.md §4.5.
func naturalLoopBody(g *cfg.Graph, header int, latches []int) map[int]bool {
	body := map[int]bool{header: true}
	var stack []int
	for _, l := range latches {
		if l != header {
			stack = append(stack, l)
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if body[n] {
			continue
		}
		body[n] = true
		stack = append(stack, g.Preds[n]...)
	}
	return body
}

func computeExits(g *cfg.Graph, l *Loop) []int {
	var exits []int
	seen := map[int]bool{}
	for b := range l.Body {
		for _, s := range g.Succs[b] {
			if !l.Body[s] && !seen[s] {
				seen[s] = true
				exits = append(exits, s)
			}
		}
	}
	sort.Ints(exits)
	return exits
}
