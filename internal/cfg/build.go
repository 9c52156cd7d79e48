package cfg

import (
	"fmt"
	"sort"

	"midend/internal/mir"
)

// BuildError reports a malformed-IR condition discovered while
// building the CFG (spec.md §7: fatal per function).
type BuildError struct {
	Msg string
}

func (e *BuildError) Error() string { return "cfg: " + e.Msg }

// Build constructs a CFG for one function's flat instruction list,
// following the leader-discovery algorithm of spec.md §4.1.
func Build(insts []*mir.Inst) (*Graph, error) {
	if len(insts) == 0 {
		return nil, &BuildError{Msg: "empty instruction list: missing ENTRY"}
	}
	if insts[0].Op != mir.ENTRY {
		return nil, &BuildError{Msg: "function does not begin with ENTRY"}
	}

	targetIndex := map[int64]int{}
	for idx, inst := range insts {
		targetIndex[inst.UniqueID] = idx
	}

	leaders := map[int]bool{0: true}

	// instruction immediately after the entry-initializer prefix: a run
	// of INIT instructions starting right after ENTRY.
	i := 1
	for i < len(insts) && insts[i].Op == mir.INIT {
		i++
	}
	if i < len(insts) {
		leaders[i] = true
	}

	for idx, inst := range insts {
		switch inst.Op {
		case mir.GOTO:
			tgt, ok := targetIndex[inst.Operand1.PtrID]
			if !ok {
				return nil, &BuildError{Msg: fmt.Sprintf("goto target %d not found", inst.Operand1.PtrID)}
			}
			leaders[tgt] = true
			if idx+1 < len(insts) {
				leaders[idx+1] = true
			}
		case mir.IF:
			tgt, ok := targetIndex[inst.Operand2.PtrID]
			if !ok {
				return nil, &BuildError{Msg: fmt.Sprintf("if target %d not found", inst.Operand2.PtrID)}
			}
			leaders[tgt] = true
			if idx+1 < len(insts) {
				leaders[idx+1] = true
			}
		}
	}

	var sortedLeaders []int
	for l := range leaders {
		sortedLeaders = append(sortedLeaders, l)
	}
	sort.Ints(sortedLeaders)

	g := &Graph{
		ByID:     map[int]*BasicBlock{},
		ByInstID: map[int64]int{},
		Preds:    map[int][]int{},
		Succs:    map[int][]int{},
		Flow:     map[Edge]ExecFlow{},
		Dom:      map[int]map[int]bool{},
		Idom:     map[int]int{},
		DF:       map[int][]int{},
	}

	instIDToBlock := map[int64]int{}
	for bi, start := range sortedLeaders {
		end := len(insts)
		if bi+1 < len(sortedLeaders) {
			end = sortedLeaders[bi+1]
		}
		block := NewBlock(bi, append([]*mir.Inst{}, insts[start:end]...))
		g.Blocks = append(g.Blocks, block)
		g.ByID[bi] = block
		for _, inst := range block.Insts.All() {
			instIDToBlock[inst.UniqueID] = bi
		}
	}
	g.ByInstID = instIDToBlock
	g.EntryID = 0
	g.ExitID = len(g.Blocks) - 1

	blockContainingInst := func(instID int64) int {
		return instIDToBlock[instID]
	}

	addEdge := func(from, to int, label ExecFlow) {
		g.Succs[from] = append(g.Succs[from], to)
		g.Preds[to] = append(g.Preds[to], from)
		g.Flow[Edge{from, to}] = label
	}

	for bi, block := range g.Blocks {
		term := block.Terminator()
		if term == nil {
			// Empty trailing block (e.g. synthetic exit) falls through
			// to nothing further.
			continue
		}
		switch term.Op {
		case mir.GOTO:
			tgt := blockContainingInst(term.Operand1.PtrID)
			block.BranchType = BranchJump
			block.OrderedSuccessors = []int{tgt}
			addEdge(bi, tgt, UnCond)
		case mir.IF:
			trueTgt := blockContainingInst(term.Operand2.PtrID)
			if bi+1 >= len(g.Blocks) {
				return nil, &BuildError{Msg: "IF has no fall-through block"}
			}
			falseTgt := bi + 1
			block.BranchType = BranchCond
			block.OrderedSuccessors = []int{trueTgt, falseTgt}
			addEdge(bi, trueTgt, True)
			addEdge(bi, falseTgt, False)
		case mir.EXIT:
			// terminal: no successors.
		default:
			if bi+1 < len(g.Blocks) {
				next := bi + 1
				block.BranchType = BranchJump
				block.OrderedSuccessors = []int{next}
				addEdge(bi, next, UnCond)
			}
		}
	}

	rankBFS(g)

	return g, nil
}

// rankBFS performs a BFS from entry assigning Rank and Preorder. For a
// BranchCond block, the FALSE target is enqueued before the TRUE
// target so that, when both are at the same BFS depth, the false
// fall-through receives the smaller preorder (spec.md §4.1 step 4).
func rankBFS(g *Graph) {
	visited := map[int]bool{}
	queue := []int{g.EntryID}
	visited[g.EntryID] = true
	preorder := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		b := g.ByID[id]
		b.Rank = preorder
		b.Preorder = preorder
		preorder++
		g.RankOrder = append(g.RankOrder, id)

		var next []int
		switch b.BranchType {
		case BranchCond:
			next = []int{b.OrderedSuccessors[1], b.OrderedSuccessors[0]} // FALSE then TRUE
		default:
			next = b.OrderedSuccessors
		}
		for _, s := range next {
			if !visited[s] {
				visited[s] = true
				queue = append(queue, s)
			}
		}
	}
}
