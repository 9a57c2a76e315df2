// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package encoding implements the bijection between a legal move and an
// {row, col, plane} cell of the 8x8x73 action grid, and the inverse:
// turning a raw policy tensor plus a set of legal successor boards into a
// normalised prior per successor. Grounded on
// original_source/ruky/src/ecmv.rs and ecpm.rs — the pack ships two
// divergent encoders with inconsistent plane-index conventions (one
// 1-based, one 0-based, and at least one broken assertion); this package
// implements the 0-based convention, the one spec.md's channel-layout
// section defines bit-exactly, and does not carry the other.
package encoding

import (
	"fmt"
	"math"

	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/piece"
)

// EncodedMove identifies one cell of the 8x8x73 action grid: Row and Col
// locate the move's origin square, Plane its direction/distance or
// knight/under-promotion code.
type EncodedMove struct {
	Row, Col, Plane int
}

// queenDirs is the plane-order of the 8 "queen-like" ray directions:
// N, NE, E, SE, S, SW, W, NW.
var queenDirs = [8]bitboard.Direction{
	bitboard.North, bitboard.Northeast, bitboard.East, bitboard.Southeast,
	bitboard.South, bitboard.Southwest, bitboard.West, bitboard.Northwest,
}

// knightOffsets is the plane-order of the 8 knight jumps, each a
// (rank-diff, file-diff) pair.
var knightOffsets = [8][2]int{
	{-2, -1}, {-1, -2}, {1, -2}, {2, -1},
	{2, 1}, {1, 2}, {-1, 2}, {-2, 1},
}

// EncodeErrKind classifies why a move could not be encoded.
type EncodeErrKind int

// EncodeErrKind constants.
const (
	UnencodableMove EncodeErrKind = iota
)

// EncodeError reports a move outside the 8x8x73 grid's coverage (none are
// expected from a legal move, but the encoder reports rather than panics).
type EncodeError struct {
	Kind EncodeErrKind
	Msg  string
}

func (e *EncodeError) Error() string { return e.Msg }

func errUnencodable(mv piece.Piece[piece.PieceMove]) error {
	return &EncodeError{Kind: UnencodableMove, Msg: fmt.Sprintf("encoding: cannot encode move %v", mv.Val)}
}

// Encode maps a legal move to its EncodedMove cell.
func Encode(mv piece.Piece[piece.PieceMove]) (EncodedMove, error) {
	from, to := mv.Val.FromTo()
	if mv.Val.Kind == piece.Castle {
		from, to = mv.Val.KingFrom, mv.Val.KingTo
	}
	row, col := int(from.RankOf()), int(from.FileOf())
	rowDiff := int(to.RankOf()) - int(from.RankOf())
	colDiff := int(to.FileOf()) - int(from.FileOf())

	if mv.Kind == piece.Knight {
		for i, off := range knightOffsets {
			if off[0] == rowDiff && off[1] == colDiff {
				return EncodedMove{row, col, 56 + i}, nil
			}
		}
		return EncodedMove{}, errUnencodable(mv)
	}

	if promoted, isPromo := mv.Val.PromoKind(); isPromo && promoted != piece.Queen {
		kindIdx, ok := underPromoKindIndex(promoted)
		if !ok || colDiff < -1 || colDiff > 1 {
			return EncodedMove{}, errUnencodable(mv)
		}
		return EncodedMove{row, col, 64 + kindIdx*3 + (colDiff + 1)}, nil
	}

	dir, ok := rayDirection(rowDiff, colDiff)
	if !ok {
		return EncodedMove{}, errUnencodable(mv)
	}
	steps := bitboard.Distance(from, to)
	return EncodedMove{row, col, dirIndex(dir)*7 + (steps - 1)}, nil
}

func underPromoKindIndex(k piece.Kind) (int, bool) {
	switch k {
	case piece.Rook:
		return 0, true
	case piece.Bishop:
		return 1, true
	case piece.Knight:
		return 2, true
	default:
		return 0, false
	}
}

// rayDirection identifies which of the 8 queen-like rays (rowDiff,colDiff)
// lies on, or false if it lies on none (e.g. a knight-shaped offset).
func rayDirection(rowDiff, colDiff int) (bitboard.Direction, bool) {
	switch {
	case rowDiff == 0 && colDiff == 0:
		return 0, false
	case colDiff == 0 && rowDiff > 0:
		return bitboard.North, true
	case colDiff == 0 && rowDiff < 0:
		return bitboard.South, true
	case rowDiff == 0 && colDiff > 0:
		return bitboard.East, true
	case rowDiff == 0 && colDiff < 0:
		return bitboard.West, true
	case rowDiff > 0 && colDiff > 0 && rowDiff == colDiff:
		return bitboard.Northeast, true
	case rowDiff > 0 && colDiff < 0 && rowDiff == -colDiff:
		return bitboard.Northwest, true
	case rowDiff < 0 && colDiff > 0 && -rowDiff == colDiff:
		return bitboard.Southeast, true
	case rowDiff < 0 && colDiff < 0 && rowDiff == colDiff:
		return bitboard.Southwest, true
	default:
		return 0, false
	}
}

func dirIndex(d bitboard.Direction) int {
	for i, qd := range queenDirs {
		if qd == d {
			return i
		}
	}
	return -1
}

// Policy is the raw [8,8,73] logit tensor a network evaluation returns for
// one position.
type Policy [8][8][73]float64

// ChildPrior pairs a legal successor position with its decoded prior
// probability.
type ChildPrior struct {
	Board board.Board
	Prior float64
}

// DecodeErrKind classifies why DecodePriors could not decode a position.
type DecodeErrKind int

// DecodeErrKind constants.
const (
	MissingLastMove DecodeErrKind = iota
)

// DecodeError reports a child board that cannot be attributed to a move
// (every child returned by Board.NextBoards carries one, so this signals a
// caller passing boards it should not).
type DecodeError struct {
	Kind DecodeErrKind
	Msg  string
}

func (e *DecodeError) Error() string { return e.Msg }

// DecodePriors masks policy to the planes of children's moves and
// renormalises via softmax restricted to those planes, returning one
// ChildPrior per child in the same order. An empty children slice yields an
// empty, non-error result (a terminal node has no successors to score).
func DecodePriors(policy *Policy, children []board.Board) ([]ChildPrior, error) {
	if len(children) == 0 {
		return nil, nil
	}

	logits := make([]float64, len(children))
	for i, child := range children {
		mv, ok := child.LastMove()
		if !ok {
			return nil, &DecodeError{Kind: MissingLastMove, Msg: "encoding: child board has no last move to decode against"}
		}
		enc, err := Encode(mv)
		if err != nil {
			return nil, err
		}
		logits[i] = policy[enc.Row][enc.Col][enc.Plane]
	}

	return softmaxPriors(children, logits), nil
}

func softmaxPriors(children []board.Board, logits []float64) []ChildPrior {
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		if l > maxLogit {
			maxLogit = l
		}
	}

	exps := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		e := math.Exp(l - maxLogit)
		exps[i] = e
		sum += e
	}

	out := make([]ChildPrior, len(children))
	for i, child := range children {
		out[i] = ChildPrior{Board: child, Prior: exps[i] / sum}
	}
	return out
}

// DecodeValue clamps a network's scalar value output into [-1,1] as a
// defensive bound against a misbehaving evaluator; the network itself is
// expected to already apply tanh.
func DecodeValue(raw float64) float64 {
	switch {
	case raw < -1:
		return -1
	case raw > 1:
		return 1
	default:
		return raw
	}
}
