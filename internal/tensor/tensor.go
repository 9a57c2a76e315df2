// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package tensor builds the evaluator's [119,8,8] input from a tree path's
// ancestor boards. Grounded on original_source/ruky/src/tensor_encoder.rs
// (AzEncoder's channel layout doc comment and its per-piece-kind plane
// loop) and spec.md's §6 channel layout, the one place that pins down the
// counts and normalisation this package's source left implicit.
package tensor

import (
	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/pieceset"
)

const (
	// HistorySteps is the number of past positions stacked into the input,
	// most recent first, zero-padded when the path is shorter.
	HistorySteps = 8
	// PlanesPerStep is 6 mover-piece planes + 6 opponent-piece planes + 2
	// repetition-count planes.
	PlanesPerStep = 14
	// MetaPlanes is the 7 constant-broadcast planes appended after history.
	MetaPlanes = 7
	// Channels is the full input depth: 8*14 + 7 = 119.
	Channels = HistorySteps*PlanesPerStep + MetaPlanes
	// Size is the board's rank/file extent.
	Size = 8

	// fullMoveScale and halfMoveScale bring the two move counters into a
	// roughly unit range; neither the spec nor the retrieved Rust source
	// pins down a constant, so 100 is chosen to match the half-move
	// clock's own 50-move-rule ceiling (halfMoves==100) and to put typical
	// full-move counts (most games end well under 100) in a similar range.
	fullMoveScale = 100.0
	halfMoveScale = 100.0
)

// Plane is one 8x8 channel of the input tensor.
type Plane [Size][Size]float64

// Input is the dense [119,8,8] tensor the evaluator consumes.
type Input [Channels]Plane

// encodePieces writes s's pieces into the 6 planes starting at base, in the
// per-kind order king, queen, rook, bishop, knight, pawn — the order hashSet already uses in
// internal/board, kept consistent so both walks read the same way.
func encodePieces(s pieceset.Set, in *Input, base int) {
	for i, bb := range [...]bitboard.Bitboard{
		s.King(), s.Queens(), s.Rooks(), s.Bishops(), s.Knights(), s.Pawns(),
	} {
		for _, sq := range bb.Squares() {
			in[base+i][sq.RankOf()][sq.FileOf()] = 1.0
		}
	}
}

func fillPlane(p *Plane, v float64) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p[r][c] = v
		}
	}
}

func boolPlaneValue(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// Encode builds the input tensor for the leaf at the end of path (a
// root-to-leaf ancestor chain, as returned by tree.Tree.SelectLeaf, or any
// suffix of one). Only the last HistorySteps boards contribute history
// planes; channels beyond the available history are zero-padded. Each
// historical board contributes its own mover/opponent split as recorded at
// that ply (the engine does not re-orient older frames to the leaf's side
// to move — see DESIGN.md). path must contain at least one board.
func Encode(path []board.Board) Input {
	var in Input
	n := len(path)

	for step := 0; step < HistorySteps; step++ {
		idx := n - 1 - step
		if idx < 0 {
			break
		}
		b := path[idx]
		base := step * PlanesPerStep
		encodePieces(b.Mover(), &in, base)
		encodePieces(b.Opponent(), &in, base+6)

		rep := float64(b.RepetitionCount()) / 2.0
		fillPlane(&in[base+12], rep)
		fillPlane(&in[base+13], rep)
	}

	current := path[n-1]
	meta := HistorySteps * PlanesPerStep
	fillPlane(&in[meta+0], float64(current.Color()))
	fillPlane(&in[meta+1], float64(current.FullMoves())/fullMoveScale)
	fillPlane(&in[meta+2], boolPlaneValue(current.Mover().HasKingCastle()))
	fillPlane(&in[meta+3], boolPlaneValue(current.Mover().HasQueenCastle()))
	fillPlane(&in[meta+4], boolPlaneValue(current.Opponent().HasKingCastle()))
	fillPlane(&in[meta+5], boolPlaneValue(current.Opponent().HasQueenCastle()))
	fillPlane(&in[meta+6], float64(current.HalfMoves())/halfMoveScale)

	return in
}
