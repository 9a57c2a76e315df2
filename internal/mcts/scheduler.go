// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package mcts implements the batched MCTS scheduler (§4.7): a
// leader/worker loop that drives a fixed simulation budget against a
// persistent search tree, dispatching encoder/decoder work to a bounded
// goroutine pool and calling a single externally-owned evaluator once per
// collected batch. Grounded on
// frankkopp-FrankyGo/internal/search/search.go's leader-owns-state shape
// (a struct holding the mutable search state, gated by a
// `golang.org/x/sync/semaphore.Weighted`) generalized from one search
// thread driving a transposition table to many rollout workers feeding a
// single-writer tree, and on the batch-collection idiom in
// other_examples/...ZachBeta-neural_rps...batched_mcts.go (collect up to a
// batch size, dispatch once, backpropagate every result).
package mcts

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/op/go-logging"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/encoding"
	corvidLogging "github.com/corvidchess/corvid/internal/logging"
	"github.com/corvidchess/corvid/internal/tensor"
	"github.com/corvidchess/corvid/internal/tree"
)

// Evaluator is the externally-owned resource the leader calls synchronously
// once per collected batch: a dense [len(inputs),119,8,8] forward pass
// returning one raw policy and one tanh-saturated value per input, in the
// same order.
type Evaluator interface {
	Evaluate(ctx context.Context, inputs []tensor.Input) ([]encoding.Policy, []float64, error)
}

// Config parameterizes one Scheduler.
type Config struct {
	// Simulations is the rollout budget per move decision (S).
	Simulations int
	// BatchSize caps the number of leaves collected before dispatch (B).
	BatchSize int
	// Workers caps concurrent encoder/decoder goroutines (W).
	Workers int
	// TreeParams carries the PUCT and Dirichlet-noise constants through to
	// every tree.Tree this Scheduler builds.
	TreeParams tree.Params
	// SampleActions, when true, samples the move proportional to visit
	// count instead of always taking the most visited child.
	SampleActions bool
	// NoiseDisabled skips Dirichlet root noise, for deterministic
	// comparison against a reference single-threaded search.
	NoiseDisabled bool
	// Seed drives the leader's single PRNG (noise draws and action
	// sampling), per §5's determinism guarantee.
	Seed int64
}

// SearchErrKind classifies why Search could not run.
type SearchErrKind int

// SearchErrKind constants, matching spec.md §7's SearchError kinds.
const (
	MissingBoard SearchErrKind = iota
	TerminalBoard
	NoChildSelectable
)

// SearchError reports a Search precondition failure.
type SearchError struct {
	Kind SearchErrKind
	Msg  string
}

func (e *SearchError) Error() string { return e.Msg }

// Result is one move decision.
type Result struct {
	// Chosen is the successor board Search recommends playing.
	Chosen board.Board
	// Visits is the root's full visit distribution, the raw material a
	// self-play trajectory records as this move's training target.
	Visits []tree.ChildVisit
}

// Scheduler drives repeated move decisions against a persistent search
// tree, re-rooting it onto each new board via tree.Tree.UpdateRootFromBoard
// so that simulations spent exploring a move that was actually played are
// not discarded.
type Scheduler struct {
	log *logging.Logger

	eval Evaluator
	cfg  Config
	rng  *rand.Rand

	tr *tree.Tree
}

// New returns a Scheduler bound to eval.
func New(eval Evaluator, cfg Config) *Scheduler {
	return &Scheduler{
		log:  corvidLogging.Search(),
		eval: eval,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}
}

// pendingLeaf is one non-terminal leaf collected for the current batch.
type pendingLeaf struct {
	idx   int
	path  []int
	board board.Board
}

// Search drives cfg.Simulations rollouts from root (or as many as ctx
// allows before cancellation) and returns the recommended move and the
// root's visit distribution.
func (s *Scheduler) Search(ctx context.Context, root board.Board) (*Result, error) {
	if root.Mover().King() == 0 {
		return nil, &SearchError{Kind: MissingBoard, Msg: "mcts: cannot search from an empty/uninitialized board"}
	}
	if root.IsTerminal() {
		return nil, &SearchError{Kind: TerminalBoard, Msg: "mcts: cannot search from a terminal board"}
	}

	if s.tr == nil {
		s.tr = tree.New(root, s.cfg.TreeParams)
	} else {
		s.tr.UpdateRootFromBoard(root)
	}

	noiseApplied := s.cfg.NoiseDisabled
	if !noiseApplied && !s.tr.Node(s.tr.Root()).IsLeaf {
		// A reused root already has children from a prior move's search,
		// so the usual "apply noise right after this tick's own expansion"
		// hook below will never fire for it.
		s.tr.ApplyRootNoise(s.rng)
		noiseApplied = true
	}

	// An unexpanded root is evaluated once before the simulation budget
	// starts, so every counted simulation ends below the root and the
	// root's children's visits sum to cfg.Simulations.
	if s.tr.Node(s.tr.Root()).IsLeaf && ctx.Err() == nil {
		path := s.tr.SelectLeaf()
		if err := s.resolveBatch(ctx, []pendingLeaf{{idx: path[0], path: path, board: root}}, &noiseApplied); err != nil {
			return nil, err
		}
	}

	done := 0
	for done < s.cfg.Simulations {
		cancelled := ctx.Err() != nil

		var pending []pendingLeaf
		for !cancelled && len(pending) < s.cfg.BatchSize && len(pending)+done < s.cfg.Simulations {
			path := s.tr.SelectLeaf()
			leafIdx := path[len(path)-1]
			leafBoard := s.tr.Node(leafIdx).Board

			if leafBoard.IsTerminal() {
				s.tr.Backup(path, tree.TerminalValue(leafBoard))
				done++
				continue
			}
			pending = append(pending, pendingLeaf{idx: leafIdx, path: path, board: leafBoard})
		}

		if len(pending) > 0 {
			if err := s.resolveBatch(ctx, pending, &noiseApplied); err != nil {
				return nil, err
			}
			done += len(pending)
		}

		if cancelled {
			break
		}
	}

	action, err := s.tr.SelectAction(s.rng, s.cfg.SampleActions)
	if err != nil {
		return nil, &SearchError{Kind: NoChildSelectable, Msg: fmt.Sprintf("mcts: %v", err)}
	}
	return &Result{
		Chosen: s.tr.Node(action).Board,
		Visits: s.tr.VisitDistribution(),
	}, nil
}

// resolveBatch encodes, evaluates, decodes, and backs up one collection
// window's worth of pending leaves.
func (s *Scheduler) resolveBatch(ctx context.Context, pending []pendingLeaf, noiseApplied *bool) error {
	inputs, err := s.encodeBatch(ctx, pending)
	if err != nil {
		return err
	}

	policies, values, err := s.eval.Evaluate(ctx, inputs)
	if err != nil {
		return fmt.Errorf("mcts: evaluator call failed: %w", err)
	}

	priorsBatch, err := s.decodeBatch(ctx, pending, policies)
	if err != nil {
		return err
	}

	for i, pl := range pending {
		value := encoding.DecodeValue(values[i])
		expanded := s.tr.Expand(pl.idx, priorsBatch[i], value)
		if expanded && !*noiseApplied && pl.idx == s.tr.Root() {
			s.tr.ApplyRootNoise(s.rng)
			*noiseApplied = true
		}
		s.tr.Backup(pl.path, value)
	}
	return nil
}

// pathBoards materializes the Board at every arena index on path, the
// "board_stack" an encoder worker needs.
func (s *Scheduler) pathBoards(path []int) []board.Board {
	boards := make([]board.Board, len(path))
	for i, idx := range path {
		boards[i] = s.tr.Node(idx).Board
	}
	return boards
}

// encodeBatch runs tensor.Encode for every pending leaf across up to
// cfg.Workers goroutines.
func (s *Scheduler) encodeBatch(ctx context.Context, pending []pendingLeaf) ([]tensor.Input, error) {
	inputs := make([]tensor.Input, len(pending))
	sem := semaphore.NewWeighted(int64(s.cfg.Workers))
	g, gctx := errgroup.WithContext(ctx)

	var acquireErr error
	for i, pl := range pending {
		i, pl := i, pl
		if err := sem.Acquire(gctx, 1); err != nil {
			acquireErr = err
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			inputs[i] = tensor.Encode(s.pathBoards(pl.path))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("mcts: encoder worker pool: %w", err)
	}
	if acquireErr != nil {
		return nil, fmt.Errorf("mcts: encoder worker pool: %w", acquireErr)
	}
	return inputs, nil
}

// decodeBatch filters and renormalises each pending leaf's policy slice
// over its legal children, across up to cfg.Workers goroutines.
func (s *Scheduler) decodeBatch(ctx context.Context, pending []pendingLeaf, policies []encoding.Policy) ([][]encoding.ChildPrior, error) {
	out := make([][]encoding.ChildPrior, len(pending))
	sem := semaphore.NewWeighted(int64(s.cfg.Workers))
	g, gctx := errgroup.WithContext(ctx)

	var acquireErr error
	for i, pl := range pending {
		i, pl := i, pl
		if err := sem.Acquire(gctx, 1); err != nil {
			acquireErr = err
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			children, ok := pl.board.NextBoards()
			if !ok {
				return nil // unreachable: terminal leaves are filtered before dispatch.
			}
			priors, err := encoding.DecodePriors(&policies[i], children)
			if err != nil {
				return err
			}
			out[i] = priors
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("mcts: decoder worker pool: %w", err)
	}
	if acquireErr != nil {
		return nil, fmt.Errorf("mcts: decoder worker pool: %w", acquireErr)
	}
	return out, nil
}
