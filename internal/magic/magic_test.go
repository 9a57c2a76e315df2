// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package magic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidchess/corvid/internal/bitboard"
)

func sqSet(names ...string) bitboard.Bitboard {
	var b bitboard.Bitboard
	for _, n := range names {
		b = b.Set(bitboard.MakeSquare(n))
	}
	return b
}

func TestRookAttacksD4(t *testing.T) {
	req := require.New(t)
	tables, err := New()
	req.NoError(err)

	blockers := sqSet("a4", "b4", "f4", "d3")
	want := sqSet("d3", "b4", "c4", "e4", "f4", "d5", "d6", "d7", "d8")

	got := tables.Attacks(Rook, bitboard.MakeSquare("d4"), blockers)
	req.Equal(want, got)
}

func TestBishopAttacksD4(t *testing.T) {
	req := require.New(t)
	tables, err := New()
	req.NoError(err)

	blockers := sqSet("g7", "f2")
	want := sqSet("a1", "b2", "c3", "e3", "f2", "c5", "e5", "b6", "f6", "a7", "g7")

	got := tables.Attacks(Bishop, bitboard.MakeSquare("d4"), blockers)
	req.Equal(want, got)
}

func TestAttacksMatchRaytraceForAllSquares(t *testing.T) {
	req := require.New(t)
	tables, err := New()
	req.NoError(err)

	occupancies := []bitboard.Bitboard{
		bitboard.Zero,
		bitboard.All,
		sqSet("a1", "h8", "d4", "e5"),
		sqSet("c3", "c6", "f3", "f6"),
	}

	for sq := bitboard.SqA1; sq < bitboard.SqNone; sq++ {
		for _, occ := range occupancies {
			wantRook := slidingAttack(rookDirections, sq, occ)
			req.Equal(wantRook, tables.Attacks(Rook, sq, occ), "rook sq=%v occ=%v", sq, occ)

			wantBishop := slidingAttack(bishopDirections, sq, occ)
			req.Equal(wantBishop, tables.Attacks(Bishop, sq, occ), "bishop sq=%v occ=%v", sq, occ)
		}
	}
}

func TestBuildEntryRejectsOutOfRangeSquare(t *testing.T) {
	req := require.New(t)

	_, err := buildEntry(-1, rookDirections)
	req.Error(err)
	var magicErr *Error
	req.ErrorAs(err, &magicErr)
	req.Equal(InvalidSquare, magicErr.Kind)

	_, err = buildEntry(64, bishopDirections)
	req.Error(err)
	req.ErrorAs(err, &magicErr)
	req.Equal(InvalidSquare, magicErr.Kind)
}
