// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package tree implements the in-memory search tree: a single arena of
// nodes, PUCT selection with virtual loss, expansion, negated backup,
// Dirichlet root noise, and subtree reuse across move decisions.
// Grounded on original_source/ruky/src/tree_search.rs, the largest file in
// the pack's Rust source — its arena-of-nodes-with-parent-index design and
// constants (EXPLORE_BASE, EXPLORE_INIT, DIR_ALPHA, DIR_EXPLORE_FRAC) are
// carried over directly, re-expressed in the flat-slice-plus-index-range
// idiom frankkopp-FrankyGo already uses for its transposition table.
//
// Tree is not safe for concurrent use: per the scheduler's single-writer
// design (§5), only the leader goroutine ever calls these methods.
package tree

import (
	"math"
	"math/rand"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/encoding"
)

// Params holds the PUCT and Dirichlet-noise constants, normally sourced
// from config.Settings.Search so they can be tuned without a rebuild.
type Params struct {
	CBase, CInit                     float64
	DirichletAlpha, DirichletEpsilon float64
}

// DefaultParams returns AlphaZero's published constants, used by callers
// (chiefly tests) that have not loaded config.Settings.
func DefaultParams() Params {
	return Params{CBase: 19652, CInit: 1.25, DirichletAlpha: 0.3, DirichletEpsilon: 0.25}
}

// Node is one arena entry. ChildrenFirst/ChildrenLast name a contiguous
// range of arena indices (ChildrenFirst == ChildrenLast means no children
// yet, whether because the node is a leaf or is terminal).
type Node struct {
	Board board.Board

	Parent        int
	ChildrenFirst int
	ChildrenLast  int

	Prior         float64
	InitValue     float64
	ValueSum      float64
	Visits        int
	VirtualVisits int

	IsLeaf bool
	Index  int
}

// TotalVisits is the node's real plus in-flight visit count, the
// `total_visits` quantity PUCT scoring reads.
func (n *Node) TotalVisits() int {
	return n.Visits + n.VirtualVisits
}

// Q is the node's mean backed-up value, 0 for an unvisited node.
func (n *Node) Q() float64 {
	if n.Visits == 0 {
		return 0
	}
	return n.ValueSum / float64(n.Visits)
}

// Tree is an arena-backed search tree rooted at one position.
type Tree struct {
	arena  []Node
	root   int
	params Params
}

// New returns a fresh, single-node tree rooted at b.
func New(b board.Board, params Params) *Tree {
	return &Tree{arena: []Node{{Board: b, Parent: -1, IsLeaf: true}}, params: params}
}

// Root returns the current root node index.
func (t *Tree) Root() int { return t.root }

// Node returns a pointer to the arena entry at idx, valid until the next
// call that appends to the arena (Expand or UpdateRootFromBoard).
func (t *Tree) Node(idx int) *Node { return &t.arena[idx] }

// Len returns the number of nodes currently in the arena.
func (t *Tree) Len() int { return len(t.arena) }

// SelectLeaf descends from the root via PUCT, applying virtual loss to
// every node it passes through (including the root and the leaf itself),
// and returns the path taken as a root-to-leaf sequence of arena indices.
func (t *Tree) SelectLeaf() []int {
	idx := t.root
	t.arena[idx].VirtualVisits++
	path := []int{idx}
	for !t.arena[idx].IsLeaf {
		idx = t.selectChild(idx)
		t.arena[idx].VirtualVisits++
		path = append(path, idx)
	}
	return path
}

func (t *Tree) selectChild(parentIdx int) int {
	parent := &t.arena[parentIdx]
	c := t.explorationCoefficient(parent.TotalVisits())

	siblingVisits := 0
	for i := parent.ChildrenFirst; i < parent.ChildrenLast; i++ {
		siblingVisits += t.arena[i].TotalVisits()
	}
	sqrtS := math.Sqrt(float64(siblingVisits))

	best := parent.ChildrenFirst
	bestScore := math.Inf(-1)
	for i := parent.ChildrenFirst; i < parent.ChildrenLast; i++ {
		child := &t.arena[i]
		u := c * child.Prior * sqrtS / float64(1+child.TotalVisits())
		score := child.Q() + u
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

func (t *Tree) explorationCoefficient(parentTotalVisits int) float64 {
	cBase, cInit := t.params.CBase, t.params.CInit
	return math.Log((1+float64(parentTotalVisits)+cBase)/cBase) + cInit
}

// TerminalValue returns the value a terminal leaf backs up: +1 if the
// position is checkmate (the move leading here was winning), 0 for any
// other terminal classification (stalemate, 50-move, insufficient
// material, threefold repetition).
func TerminalValue(b board.Board) float64 {
	if b.IsMate() {
		return 1
	}
	return 0
}

// Expand allocates children for the leaf at idx from decoded child priors
// and records the evaluator's value. It reports false without modifying
// the arena if idx was already expanded by a concurrent winner of the
// expansion race (§5) — the caller should then fall back to a plain visit
// update instead.
func (t *Tree) Expand(idx int, priors []encoding.ChildPrior, value float64) bool {
	if !t.arena[idx].IsLeaf {
		return false
	}

	first := len(t.arena)
	for _, cp := range priors {
		t.arena = append(t.arena, Node{
			Board:  cp.Board,
			Parent: idx,
			Index:  len(t.arena),
			Prior:  cp.Prior,
			IsLeaf: true,
		})
	}
	last := len(t.arena)

	n := &t.arena[idx]
	n.ChildrenFirst, n.ChildrenLast = first, last
	n.InitValue = value
	n.IsLeaf = false
	return true
}

// Backup propagates value up path (root-to-leaf order, as returned by
// SelectLeaf), negating at each ply and converting each node's pending
// virtual loss into a real visit.
func (t *Tree) Backup(path []int, value float64) {
	v := value
	for i := len(path) - 1; i >= 0; i-- {
		n := &t.arena[path[i]]
		if n.VirtualVisits > 0 {
			n.VirtualVisits--
		}
		n.Visits++
		n.ValueSum += v
		v = -v
	}
}

// ApplyRootNoise mixes Dirichlet(dirichletAlpha) noise into the root's
// children priors, per AlphaZero's root exploration scheme. A no-op if the
// root has fewer than 2 children (nothing to explore among) or is not yet
// expanded.
func (t *Tree) ApplyRootNoise(rng *rand.Rand) {
	root := &t.arena[t.root]
	n := root.ChildrenLast - root.ChildrenFirst
	if n < 2 {
		return
	}

	alpha, eps := t.params.DirichletAlpha, t.params.DirichletEpsilon
	etas := make([]float64, n)
	sum := 0.0
	for i := range etas {
		etas[i] = sampleGamma(rng, alpha)
		sum += etas[i]
	}
	for i := 0; i < n; i++ {
		eta := etas[i] / sum // Gamma draws normalised to sum 1 make a Dirichlet(alpha) sample.
		child := &t.arena[root.ChildrenFirst+i]
		child.Prior = (1-eps)*child.Prior + eps*eta
	}
}

// sampleGamma draws from Gamma(alpha, 1) via the Marsaglia-Tsang method,
// boosting alpha<1 draws per the standard alpha -> alpha+1 identity.
func sampleGamma(rng *rand.Rand, alpha float64) float64 {
	if alpha < 1 {
		u := rng.Float64()
		return sampleGamma(rng, alpha+1) * math.Pow(u, 1/alpha)
	}

	d := alpha - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// UpdateRootFromBoard re-roots the tree at the existing child matching
// newBoard's state hash, in O(branching factor); if no child matches, the
// arena is cleared and reseeded fresh from newBoard. Unreachable siblings
// left behind by a successful re-root are not reclaimed, matching §4.6's
// "memory of unreachable subtrees is not reclaimed within a single search".
func (t *Tree) UpdateRootFromBoard(newBoard board.Board) {
	root := &t.arena[t.root]
	target := newBoard.StateHash()
	for i := root.ChildrenFirst; i < root.ChildrenLast; i++ {
		if t.arena[i].Board.StateHash() == target {
			t.root = i
			return
		}
	}
	t.arena = t.arena[:0]
	t.arena = append(t.arena, Node{Board: newBoard, Parent: -1, IsLeaf: true})
	t.root = 0
}

// TreeErrKind classifies a Tree operation failure.
type TreeErrKind int

// TreeErrKind constants.
const (
	NoLegalChildren TreeErrKind = iota
)

// TreeError reports that an action was requested of a root with no
// children (it was never expanded, or the position is terminal).
type TreeError struct {
	Kind TreeErrKind
	Msg  string
}

func (e *TreeError) Error() string { return e.Msg }

// SelectAction picks the root's recommended move per §4.6: the sole child
// if exactly one exists; otherwise the most-visited child (ties broken by
// smaller index) if sampleAction is false, or a visit-weighted random
// child if true.
func (t *Tree) SelectAction(rng *rand.Rand, sampleAction bool) (int, error) {
	root := &t.arena[t.root]
	n := root.ChildrenLast - root.ChildrenFirst
	if n == 0 {
		return -1, &TreeError{Kind: NoLegalChildren, Msg: "tree: root has no children to select an action from"}
	}
	if n == 1 {
		return root.ChildrenFirst, nil
	}

	if !sampleAction {
		best := root.ChildrenFirst
		bestVisits := -1
		for i := root.ChildrenFirst; i < root.ChildrenLast; i++ {
			if t.arena[i].Visits > bestVisits {
				bestVisits = t.arena[i].Visits
				best = i
			}
		}
		return best, nil
	}

	total := 0
	for i := root.ChildrenFirst; i < root.ChildrenLast; i++ {
		total += t.arena[i].Visits
	}
	if total == 0 {
		return root.ChildrenFirst + rng.Intn(n), nil
	}
	r := rng.Intn(total)
	acc := 0
	for i := root.ChildrenFirst; i < root.ChildrenLast; i++ {
		acc += t.arena[i].Visits
		if r < acc {
			return i, nil
		}
	}
	return root.ChildrenLast - 1, nil
}

// ChildVisit pairs a root child's position with its visit count, the raw
// material self-play training records as the move's visit distribution.
type ChildVisit struct {
	Board  board.Board
	Visits int
}

// VisitDistribution returns the root's children and their visit counts, in
// arena order.
func (t *Tree) VisitDistribution() []ChildVisit {
	root := &t.arena[t.root]
	out := make([]ChildVisit, 0, root.ChildrenLast-root.ChildrenFirst)
	for i := root.ChildrenFirst; i < root.ChildrenLast; i++ {
		out = append(out, ChildVisit{Board: t.arena[i].Board, Visits: t.arena[i].Visits})
	}
	return out
}
