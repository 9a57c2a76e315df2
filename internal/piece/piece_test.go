// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package piece

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidchess/corvid/internal/bitboard"
)

func TestKindPredicates(t *testing.T) {
	req := require.New(t)

	p := New(Knight, bitboard.SqG1.Bb())
	req.True(p.IsKnight())
	req.False(p.IsQueen())
	req.Equal("knight", p.Kind.String())
}

func TestBareStripsPayload(t *testing.T) {
	req := require.New(t)

	p := New(Rook, bitboard.SqA1)
	bare := Bare(p)
	req.Equal(Rook, bare.Kind)
}

func TestWithReplacesPayloadKeepsKind(t *testing.T) {
	req := require.New(t)

	p := New(Bishop, 3)
	q := With(p, "c1")
	req.Equal(Bishop, q.Kind)
	req.Equal("c1", q.Val)
}

func TestKindIsValid(t *testing.T) {
	req := require.New(t)
	req.False(KindNone.IsValid())
	req.True(King.IsValid())
	req.True(Pawn.IsValid())
	req.False(Kind(200).IsValid())
}
