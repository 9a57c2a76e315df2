// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package tree

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/encoding"
	"github.com/corvidchess/corvid/internal/magic"
	"github.com/corvidchess/corvid/internal/piece"
)

func mustMagics(t *testing.T) *magic.Tables {
	t.Helper()
	tables, err := magic.New()
	require.NoError(t, err)
	return tables
}

func uniformPriors(children []board.Board) []encoding.ChildPrior {
	out := make([]encoding.ChildPrior, len(children))
	p := 1.0 / float64(len(children))
	for i, c := range children {
		out[i] = encoding.ChildPrior{Board: c, Prior: p}
	}
	return out
}

func TestSelectLeafOnFreshTreeReturnsRootOnly(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	path := tr.SelectLeaf()
	req.Equal([]int{0}, path)
	req.Equal(1, tr.Node(0).VirtualVisits)
}

func TestExpandThenSelectLeafDescendsToHighestPriorChild(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)

	priors := uniformPriors(children)
	priors[3].Prior = 0.9 // make one child overwhelmingly favoured
	ok2 := tr.Expand(tr.Root(), priors, 0)
	req.True(ok2)

	// With every child still at 0 visits, sibling-visit sum S is 0 and every
	// U term vanishes regardless of prior (score(child)=Q(child)+U(child)
	// per §4.6, and S=0 makes U=0 for all children) — give each child one
	// equal, valueless visit first so S>0 and prior actually drives U.
	root := tr.Node(tr.Root())
	for i := root.ChildrenFirst; i < root.ChildrenLast; i++ {
		tr.Node(i).Visits = 1
	}

	path := tr.SelectLeaf()
	req.Equal([]int{0, 1 + 3}, path) // arena index 0 is root, children start at 1
}

func TestExpandFailsWhenAlreadyExpanded(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	priors := uniformPriors(children)

	req.True(tr.Expand(tr.Root(), priors, 0))
	req.False(tr.Expand(tr.Root(), priors, 0))
}

func TestBackupNegatesValueUpPathAndClearsVirtualLoss(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	req.True(tr.Expand(tr.Root(), uniformPriors(children), 0))

	path := tr.SelectLeaf()
	req.Len(path, 2)

	tr.Backup(path, 1.0)

	root := tr.Node(path[0])
	leaf := tr.Node(path[1])
	req.Equal(0, root.VirtualVisits)
	req.Equal(0, leaf.VirtualVisits)
	req.Equal(1, root.Visits)
	req.Equal(1, leaf.Visits)
	req.Equal(-1.0, root.ValueSum)
	req.Equal(1.0, leaf.ValueSum)
}

func TestTerminalValueIsOneForMateZeroOtherwise(t *testing.T) {
	req := require.New(t)
	tables := mustMagics(t)
	b := board.New(tables)

	var err error
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		b, err = playUCI(b, uci)
		req.NoError(err)
	}
	req.True(b.IsMate())
	req.Equal(1.0, TerminalValue(b))

	nonMate := board.New(tables)
	req.Equal(0.0, TerminalValue(nonMate))
}

// playUCI is a minimal local helper mirroring board_test.go's applyUCI,
// needed here because that helper is unexported to the board package.
func playUCI(b board.Board, uci string) (board.Board, error) {
	children, ok := b.NextBoards()
	if !ok {
		return b, errors.New("no legal moves")
	}
	for _, child := range children {
		mv, _ := child.LastMove()
		from, to := mv.Val.FromTo()
		if mv.Val.Kind == piece.Castle {
			from, to = mv.Val.KingFrom, mv.Val.KingTo
		}
		if from.String() == uci[0:2] && to.String() == uci[2:4] {
			return child, nil
		}
	}
	return b, errors.New("move not found: " + uci)
}

func TestApplyRootNoiseNoopBelowTwoChildren(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	single := []encoding.ChildPrior{{Board: children[0], Prior: 1.0}}
	req.True(tr.Expand(tr.Root(), single, 0))

	rng := rand.New(rand.NewSource(1))
	tr.ApplyRootNoise(rng)

	req.Equal(1.0, tr.Node(1).Prior)
}

func TestApplyRootNoisePreservesPriorMassApproximately(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	priors := uniformPriors(children)
	req.True(tr.Expand(tr.Root(), priors, 0))

	rng := rand.New(rand.NewSource(42))
	tr.ApplyRootNoise(rng)

	root := tr.Node(tr.Root())
	sum := 0.0
	changed := false
	for i := root.ChildrenFirst; i < root.ChildrenLast; i++ {
		n := tr.Node(i)
		sum += n.Prior
		if n.Prior != priors[i-root.ChildrenFirst].Prior {
			changed = true
		}
	}
	req.InDelta(1.0, sum, 1e-6)
	req.True(changed, "expected noise to perturb at least one prior")
}

func TestUpdateRootFromBoardReroots(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	req.True(tr.Expand(tr.Root(), uniformPriors(children), 0))

	target := children[2]
	tr.UpdateRootFromBoard(target)

	req.Equal(target.StateHash(), tr.Node(tr.Root()).Board.StateHash())
	req.Equal(1+len(children), tr.Len()) // arena untouched, just re-rooted
}

func TestUpdateRootFromBoardResetsOnMiss(t *testing.T) {
	req := require.New(t)
	tables := mustMagics(t)
	b := board.New(tables)
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	req.True(tr.Expand(tr.Root(), uniformPriors(children), 0))

	unrelated, err := playUCI(b, "e2e4")
	req.NoError(err)
	unrelated, err = playUCI(unrelated, "e7e5")
	req.NoError(err)

	tr.UpdateRootFromBoard(unrelated)

	req.Equal(1, tr.Len())
	req.Equal(unrelated.StateHash(), tr.Node(tr.Root()).Board.StateHash())
}

func TestSelectActionSingleChildShortcut(t *testing.T) {
	req := require.New(t)
	tables := mustMagics(t)
	b := board.New(tables)

	var err error
	for _, uci := range []string{"f2f3", "e7e5", "g2g4"} {
		b, err = playUCI(b, uci)
		req.NoError(err)
	}
	children, ok := b.NextBoards()
	req.True(ok)
	// Black has many legal moves in this position; use a constructed
	// one-child tree instead to exercise the shortcut deterministically.
	tr := New(b, DefaultParams())
	req.True(tr.Expand(tr.Root(), []encoding.ChildPrior{{Board: children[0], Prior: 1}}, 0))

	idx, err := tr.SelectAction(rand.New(rand.NewSource(1)), false)
	req.NoError(err)
	req.Equal(1, idx)
}

func TestSelectActionMostVisitedWithIndexTiebreak(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	req.True(tr.Expand(tr.Root(), uniformPriors(children), 0))

	root := tr.Node(tr.Root())
	tr.Node(root.ChildrenFirst).Visits = 5
	tr.Node(root.ChildrenFirst + 1).Visits = 9
	tr.Node(root.ChildrenFirst + 2).Visits = 9

	idx, err := tr.SelectAction(rand.New(rand.NewSource(1)), false)
	req.NoError(err)
	req.Equal(root.ChildrenFirst+1, idx) // tie goes to the smaller index
}

func TestSelectActionSamplingIsVisitWeighted(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	req.True(tr.Expand(tr.Root(), uniformPriors(children), 0))

	root := tr.Node(tr.Root())
	tr.Node(root.ChildrenFirst).Visits = 100 // every other child has 0 visits

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		idx, err := tr.SelectAction(rng, true)
		req.NoError(err)
		req.Equal(root.ChildrenFirst, idx)
	}
}

func TestSelectActionNoChildrenReturnsError(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	_, err := tr.SelectAction(rand.New(rand.NewSource(1)), false)
	req.Error(err)
	var treeErr *TreeError
	req.ErrorAs(err, &treeErr)
	req.Equal(NoLegalChildren, treeErr.Kind)
}

func TestVisitDistributionReportsRootChildren(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	tr := New(b, DefaultParams())

	children, ok := b.NextBoards()
	req.True(ok)
	req.True(tr.Expand(tr.Root(), uniformPriors(children), 0))
	tr.Node(tr.Node(tr.Root()).ChildrenFirst).Visits = 3

	dist := tr.VisitDistribution()
	req.Len(dist, len(children))
	req.Equal(3, dist[0].Visits)
}
