// Package dataflow implements the generic worklist-based dataflow
// framework of spec.md §4.6, parameterized over a direction, a
// semilattice and a per-block transfer function.
package dataflow

import "midend/internal/lattice"

// Direction selects whether facts flow from preds to succs or back.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// TransferFunc computes a block's out-fact (forward) or in-fact
// (backward) from the merged fact flowing into it.
type TransferFunc[T any] func(blockID int, in T) T

// Framework bundles everything the worklist driver needs: the CFG
// shape (as plain pred/succ maps so this package has no cfg import),
// the lattice, the transfer function and the analysis direction.
type Framework[T any] struct {
	Direction Direction
	Lattice   lattice.Semilattice[T]
	Transfer  TransferFunc[T]
	Blocks    []int
	Preds     map[int][]int
	Succs     map[int][]int
	Source    int // entry for forward, exit for backward
	Init      T   // seeded at Source
	Safe      T   // seeded everywhere else
}

// Result is the fixed-point (or best-effort, if the ceiling was hit)
// in/out fact table.
type Result[T any] struct {
	In, Out      map[int]T
	Iterations   int
	Converged    bool
}

func (f Framework[T]) neighborsIn(b int) []int {
	if f.Direction == Forward {
		return f.Preds[b]
	}
	return f.Succs[b]
}

func (f Framework[T]) neighborsOut(b int) []int {
	if f.Direction == Forward {
		return f.Succs[b]
	}
	return f.Preds[b]
}

// Run drives the worklist to a fixed point or to the 10*|blocks|
// convergence ceiling of spec.md §4.6/§5, whichever comes first.
// Exceeding the ceiling is reported via Result.Converged=false but the
// best-available facts are still returned.
func Run[T any](f Framework[T]) Result[T] {
	in := map[int]T{}
	out := map[int]T{}
	for _, b := range f.Blocks {
		if b == f.Source {
			if f.Direction == Forward {
				in[b] = f.Init
			} else {
				out[b] = f.Init
			}
			continue
		}
		in[b] = f.Safe
		out[b] = f.Safe
	}
	if f.Direction == Forward {
		out[f.Source] = f.Transfer(f.Source, in[f.Source])
	} else {
		in[f.Source] = f.Transfer(f.Source, out[f.Source])
	}

	var worklist []int
	queued := map[int]bool{}
	for _, b := range f.Blocks {
		if b != f.Source {
			worklist = append(worklist, b)
			queued[b] = true
		}
	}

	ceiling := 10 * len(f.Blocks)
	if ceiling == 0 {
		ceiling = 10
	}
	iterations := 0
	converged := true

	for len(worklist) > 0 {
		if iterations >= ceiling {
			converged = false
			break
		}
		iterations++

		b := worklist[0]
		worklist = worklist[1:]
		queued[b] = false

		merged := f.Safe
		first := true
		for _, n := range f.neighborsIn(b) {
			var nv T
			if f.Direction == Forward {
				nv = out[n]
			} else {
				nv = in[n]
			}
			if first {
				merged = nv
				first = false
				continue
			}
			merged = f.Lattice.Meet(merged, nv)
		}
		if f.Direction == Forward {
			in[b] = merged
		} else {
			out[b] = merged
		}

		var newVal T
		if f.Direction == Forward {
			newVal = f.Transfer(b, in[b])
		} else {
			newVal = f.Transfer(b, out[b])
		}

		changed := !f.Lattice.Leq(newVal, currentOf(f.Direction, in, out, b)) || !f.Lattice.Leq(currentOf(f.Direction, in, out, b), newVal)
		if f.Direction == Forward {
			out[b] = newVal
		} else {
			in[b] = newVal
		}

		if changed {
			for _, n := range f.neighborsOut(b) {
				if n == f.Source {
					continue
				}
				if !queued[n] {
					queued[n] = true
					worklist = append(worklist, n)
				}
			}
		}
	}

	return Result[T]{In: in, Out: out, Iterations: iterations, Converged: converged}
}

func currentOf[T any](dir Direction, in, out map[int]T, b int) T {
	if dir == Forward {
		return out[b]
	}
	return in[b]
}
