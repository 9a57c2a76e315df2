// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package driver

import (
	"context"
	"fmt"

	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/mcts"
)

// MatchResult tallies the outcome of a round of games between two
// schedulers, grounded on original_source/ruky/src/bin/play_match.rs's
// "match of games" driver.
type MatchResult struct {
	Games       []*GameResult
	Player1Wins int
	Player2Wins int
	Draws       int
}

// PlayMatch plays numGames games between eval1 and eval2, alternating
// which evaluator plays White each game to balance first-move advantage
// (spec.md §4.8). Each game gets its own pair of schedulers so a game's
// subtree reuse never leaks into the next.
func PlayMatch(ctx context.Context, eval1, eval2 mcts.Evaluator, cfg mcts.Config, start board.Board, numGames, maxMoves int) (*MatchResult, error) {
	result := &MatchResult{Games: make([]*GameResult, 0, numGames)}

	for g := 0; g < numGames; g++ {
		player1IsWhite := g%2 == 0

		whiteEval, blackEval := eval2, eval1
		if player1IsWhite {
			whiteEval, blackEval = eval1, eval2
		}

		gr, err := playAlternatingGame(ctx, whiteEval, blackEval, cfg, start, maxMoves)
		if err != nil {
			return nil, fmt.Errorf("driver: game %d: %w", g, err)
		}
		result.Games = append(result.Games, gr)

		switch {
		case gr.Draw:
			result.Draws++
		case (gr.Winner == bitboard.White) == player1IsWhite:
			result.Player1Wins++
		default:
			result.Player2Wins++
		}

		log.Infof("match game %d/%d finished: %s", g+1, numGames, gr.Summarize())
	}

	return result, nil
}

// playAlternatingGame plays one game where whiteEval and blackEval each
// drive their own persistent scheduler, dispatched by whichever color is
// actually to move at each ply.
func playAlternatingGame(ctx context.Context, whiteEval, blackEval mcts.Evaluator, cfg mcts.Config, start board.Board, maxMoves int) (*GameResult, error) {
	whiteSched := mcts.New(whiteEval, cfg)
	blackSched := mcts.New(blackEval, cfg)

	b := start
	var traj Trajectory
	movesPlayed := 0

	for {
		if b.IsTerminal() {
			break
		}
		if movesPlayed >= maxMoves {
			return finish(traj, b, movesPlayed, true, bitboard.White), nil
		}

		sched := blackSched
		if b.Color() == bitboard.White {
			sched = whiteSched
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
		winner = b.Color().Flip()
	}
	return finish(traj, b, movesPlayed, draw, winner), nil
}

// Summarize formats a one-line human-readable scoreline.
func (r *MatchResult) Summarize() string {
	return out.Sprintf("player1: %d, player2: %d, draws: %d (of %d games)",
		r.Player1Wins, r.Player2Wins, r.Draws, len(r.Games))
}
