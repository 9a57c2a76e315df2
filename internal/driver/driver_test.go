// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/magic"
	"github.com/corvidchess/corvid/internal/mcts"
	"github.com/corvidchess/corvid/internal/tree"
)

func mustMagics(t *testing.T) *magic.Tables {
	t.Helper()
	tables, err := magic.New()
	require.NoError(t, err)
	return tables
}

func testSearchConfig() mcts.Config {
	return mcts.Config{
		Simulations:   4,
		BatchSize:     4,
		Workers:       2,
		TreeParams:    tree.DefaultParams(),
		SampleActions: false,
		NoiseDisabled: true,
		Seed:          7,
	}
}

func TestPlayGameStopsAtMaxMovesAndReportsDraw(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	sched := mcts.New(mcts.RandomEvaluator{}, testSearchConfig())

	res, err := PlayGame(context.Background(), sched, b, 3)
	req.NoError(err)
	req.True(res.Draw)
	req.Equal(3, res.MovesPlayed)
	req.Len(res.Trajectory, 3)
	for _, s := range res.Trajectory {
		req.Equal(0.0, s.Outcome)
	}
}

func TestPlayGameRecordsOneSamplePerMove(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	sched := mcts.New(mcts.RandomEvaluator{}, testSearchConfig())

	res, err := PlayGame(context.Background(), sched, b, 5)
	req.NoError(err)
	req.Len(res.Trajectory, res.MovesPlayed)
	for i, s := range res.Trajectory {
		req.Equal(s.Board.StateHash(), res.Trajectory[i].Board.StateHash())
		req.NotEmpty(s.VisitCounts)
	}
}

func TestPlayMatchAlternatesColorsAndTalliesScoreline(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))

	result, err := PlayMatch(context.Background(), mcts.RandomEvaluator{}, mcts.RandomEvaluator{}, testSearchConfig(), b, 2, 3)
	req.NoError(err)
	req.Len(result.Games, 2)
	req.Equal(result.Draws, result.Player1Wins+result.Player2Wins+result.Draws)
	for _, gr := range result.Games {
		req.True(gr.Draw)
		req.Equal(3, gr.MovesPlayed)
	}
}

func TestGameResultSummarizeReportsDrawOrWinner(t *testing.T) {
	req := require.New(t)
	drawn := &GameResult{Draw: true, MovesPlayed: 10}
	req.Contains(drawn.Summarize(), "drawn")

	won := &GameResult{Draw: false, MovesPlayed: 7}
	req.Contains(won.Summarize(), "won")
}
