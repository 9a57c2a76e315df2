// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package driver implements the self-play and match game loops (§4.8):
// repeatedly invoking a scheduler from the current board, recording a
// trajectory of (board, visit distribution) samples, and terminating on
// is_terminal() or a move-count ceiling (reported as a draw). Grounded on
// original_source/ruky/src/bin/self_play.rs's single-game loop and
// dataset.rs's sample shape, re-expressed in frankkopp-FrankyGo's
// logging/formatted-summary idiom (`cmd/FrankyGo/main.go`'s
// `message.NewPrinter(language.German)` pattern).
package driver

import (
	"context"
	"fmt"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/board"
	corvidLogging "github.com/corvidchess/corvid/internal/logging"
	"github.com/corvidchess/corvid/internal/mcts"
	"github.com/corvidchess/corvid/internal/tree"
)

var out = message.NewPrinter(language.German)

var log *logging.Logger = corvidLogging.Standard()

// Sample is one move decision recorded for later training: the position it
// was chosen from, the root's visit distribution at that decision, and
// (filled in once the game ends) the game's outcome from this position's
// mover's perspective: +1 win, -1 loss, 0 draw.
type Sample struct {
	Board       board.Board
	VisitCounts []tree.ChildVisit
	Outcome     float64
}

// Trajectory is one game's ordered samples.
type Trajectory []Sample

// GameResult is the outcome of one played game.
type GameResult struct {
	Trajectory  Trajectory
	FinalBoard  board.Board
	MovesPlayed int
	Draw        bool
	// Winner is meaningful only when Draw is false.
	Winner bitboard.Color
}

// PlayGame plays a single game from start using sched for every move,
// stopping at a terminal position or after maxMoves plies (reported as a
// draw). sched's own subtree reuse (tree.Tree.UpdateRootFromBoard) carries
// simulations across the whole game.
func PlayGame(ctx context.Context, sched *mcts.Scheduler, start board.Board, maxMoves int) (*GameResult, error) {
	b := start
	var traj Trajectory
	movesPlayed := 0

	for {
		if b.IsTerminal() {
			break
		}
		if movesPlayed >= maxMoves {
			log.Infof("game reached %d moves without a natural conclusion; reporting draw", maxMoves)
			return finish(traj, b, movesPlayed, true, bitboard.White), nil
		}

		res, err := sched.Search(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("driver: move %d: %w", movesPlayed, err)
		}
		traj = append(traj, Sample{Board: b, VisitCounts: res.Visits})
		b = res.Chosen
		movesPlayed++
	}

	draw := !b.IsMate()
	winner := bitboard.White
	if !draw {
		// The side to move at a mate position is the side that was mated.
		winner = b.Color().Flip()
	}
	return finish(traj, b, movesPlayed, draw, winner), nil
}

// finish backfills each sample's Outcome now that the game's result is
// known and assembles the GameResult.
func finish(traj Trajectory, final board.Board, movesPlayed int, draw bool, winner bitboard.Color) *GameResult {
	for i := range traj {
		switch {
		case draw:
			traj[i].Outcome = 0
		case traj[i].Board.Color() == winner:
			traj[i].Outcome = 1
		default:
			traj[i].Outcome = -1
		}
	}
	return &GameResult{
		Trajectory:  traj,
		FinalBoard:  final,
		MovesPlayed: movesPlayed,
		Draw:        draw,
		Winner:      winner,
	}
}

// Summarize formats a one-line human-readable result, the shape a cmd/
// binary prints after a game finishes.
func (r *GameResult) Summarize() string {
	if r.Draw {
		return out.Sprintf("game drawn after %d moves", r.MovesPlayed)
	}
	return out.Sprintf("%s won after %d moves", r.Winner, r.MovesPlayed)
}
