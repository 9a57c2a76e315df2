// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/magic"
	"github.com/corvidchess/corvid/internal/piece"
)

func mustMagics(t *testing.T) *magic.Tables {
	t.Helper()
	tables, err := magic.New()
	require.NoError(t, err)
	return tables
}

func TestEncodePawnDoublePush(t *testing.T) {
	req := require.New(t)
	mv := piece.New(piece.Pawn, piece.NewSimple(bitboard.SqE2, bitboard.SqE4))

	enc, err := Encode(mv)
	req.NoError(err)
	req.Equal(EncodedMove{Row: 1, Col: 4, Plane: 1}, enc)
}

func TestEncodeKnightMove(t *testing.T) {
	req := require.New(t)
	mv := piece.New(piece.Knight, piece.NewSimple(bitboard.SqB1, bitboard.SqC3))

	enc, err := Encode(mv)
	req.NoError(err)
	req.Equal(0, enc.Row)
	req.Equal(1, enc.Col)
	req.Equal(60, enc.Plane)
}

func TestEncodeUnderPromotionStraight(t *testing.T) {
	req := require.New(t)
	mv := piece.New(piece.Pawn, piece.NewPromo(bitboard.SqE7, bitboard.SqE8, piece.Rook))

	enc, err := Encode(mv)
	req.NoError(err)
	req.Equal(65, enc.Plane) // rook(0)*3 + straight(1) + 64
}

func TestEncodeUnderPromotionCaptureLeft(t *testing.T) {
	req := require.New(t)
	mv := piece.New(piece.Pawn, piece.NewPromoCap(bitboard.SqD7, bitboard.SqC8, piece.Knight, piece.Rook))

	enc, err := Encode(mv)
	req.NoError(err)
	req.Equal(70, enc.Plane) // knight(2)*3 + capture-left(0) + 64
}

func TestEncodeQueenPromotionUsesRayPlane(t *testing.T) {
	req := require.New(t)
	mv := piece.New(piece.Pawn, piece.NewPromo(bitboard.SqE7, bitboard.SqE8, piece.Queen))

	enc, err := Encode(mv)
	req.NoError(err)
	req.Equal(0, enc.Plane) // North, 1 step
}

func TestEncodeIsInjectiveOverLegalMoves(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	children, ok := b.NextBoards()
	req.True(ok)

	seen := map[EncodedMove]bool{}
	for _, child := range children {
		mv, _ := child.LastMove()
		enc, err := Encode(mv)
		req.NoError(err)
		req.False(seen[enc], "duplicate encoding %+v for move %v", enc, mv.Val)
		seen[enc] = true
	}
}

func TestDecodePriorsSoftmaxFavorsHighestLogit(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	children, ok := b.NextBoards()
	req.True(ok)
	req.Greater(len(children), 1)

	var policy Policy
	mv0, _ := children[0].LastMove()
	enc0, err := Encode(mv0)
	req.NoError(err)
	policy[enc0.Row][enc0.Col][enc0.Plane] = 10.0

	priors, err := DecodePriors(&policy, children)
	req.NoError(err)
	req.Len(priors, len(children))

	sum := 0.0
	for _, p := range priors {
		sum += p.Prior
	}
	req.InDelta(1.0, sum, 1e-9)
	req.Greater(priors[0].Prior, 0.9)
}

func TestDecodePriorsEmptyChildren(t *testing.T) {
	req := require.New(t)
	var policy Policy
	priors, err := DecodePriors(&policy, nil)
	req.NoError(err)
	req.Nil(priors)
}

func TestDecodeValueClampsToUnitRange(t *testing.T) {
	req := require.New(t)
	req.Equal(1.0, DecodeValue(2.5))
	req.Equal(-1.0, DecodeValue(-3.0))
	req.Equal(0.25, DecodeValue(0.25))
}
