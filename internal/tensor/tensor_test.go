// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package tensor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/magic"
)

func mustMagics(t *testing.T) *magic.Tables {
	t.Helper()
	tables, err := magic.New()
	require.NoError(t, err)
	return tables
}

func countOnes(p Plane) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p[r][c] == 1.0 {
				n++
			}
		}
	}
	return n
}

func TestEncodeInitialPositionPieceCounts(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	in := Encode([]board.Board{b})

	// step 0 (most recent, the only history here): planes 0-5 are White's
	// (the mover's) pieces, 6-11 Black's.
	req.Equal(1, countOnes(in[0])) // king
	req.Equal(1, countOnes(in[1])) // queen
	req.Equal(2, countOnes(in[2])) // rooks
	req.Equal(2, countOnes(in[3])) // bishops
	req.Equal(2, countOnes(in[4])) // knights
	req.Equal(8, countOnes(in[5])) // pawns
	req.Equal(1, countOnes(in[6]))
	req.Equal(8, countOnes(in[11]))
}

func TestEncodeKingPlanePlacesOnE1(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	in := Encode([]board.Board{b})

	req.Equal(1.0, in[0][bitboard.SqE1.RankOf()][bitboard.SqE1.FileOf()])
}

func TestEncodeZeroPadsShortHistory(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	in := Encode([]board.Board{b})

	// Only one board supplied: steps 1..7 (planes 14..111) must be all
	// zero.
	for step := 1; step < HistorySteps; step++ {
		base := step * PlanesPerStep
		for p := base; p < base+PlanesPerStep; p++ {
			req.Equal(0, countOnes(in[p]), "plane %d should be zero-padded", p)
			for r := 0; r < Size; r++ {
				for c := 0; c < Size; c++ {
					req.Equal(0.0, in[p][r][c])
				}
			}
		}
	}
}

func TestEncodeMetaPlanesReflectCurrentBoard(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	in := Encode([]board.Board{b})

	meta := HistorySteps * PlanesPerStep
	req.Equal(0.0, in[meta+0][0][0]) // White to move
	req.Equal(1.0, in[meta+2][0][0]) // White king-side castle
	req.Equal(1.0, in[meta+3][0][0]) // White queen-side castle
	req.Equal(1.0, in[meta+4][0][0]) // Black king-side castle
	req.Equal(1.0, in[meta+5][0][0]) // Black queen-side castle
	req.Equal(0.0, in[meta+6][0][0]) // half-move clock at 0
}

func TestEncodeRepetitionPlanesMatchCount(t *testing.T) {
	req := require.New(t)
	tables := mustMagics(t)
	b := board.New(tables)

	var path []board.Board
	path = append(path, b)
	for i := 0; i < 2; i++ {
		for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
			children, ok := b.NextBoards()
			req.True(ok)
			from := bitboard.MakeSquare(uci[0:2])
			to := bitboard.MakeSquare(uci[2:4])
			for _, child := range children {
				mv, _ := child.LastMove()
				mf, mt := mv.Val.FromTo()
				if mf == from && mt == to {
					b = child
					break
				}
			}
			path = append(path, b)
		}
	}

	req.Equal(3, b.RepetitionCount())

	in := Encode(path)
	req.Equal(3.0/2.0, in[12][0][0])
	req.Equal(3.0/2.0, in[13][0][0])
}

func TestEncodePanicsNeverOnMinimalPath(t *testing.T) {
	req := require.New(t)
	b := board.New(mustMagics(t))
	req.NotPanics(func() { Encode([]board.Board{b}) })
}
