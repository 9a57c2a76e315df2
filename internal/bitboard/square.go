// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package bitboard

import (
	"fmt"

	"github.com/corvidchess/corvid/internal/util"
)

// Square is an integer in [0,64) identifying one square on the board. The
// total order is A1=0 .. H8=63, i.e. index = rank*8 + file.
type Square int8

// Square constants, A1 through H8, plus the sentinel SqNone.
const (
	SqA1 Square = iota
	SqB1
	SqC1
	SqD1
	SqE1
	SqF1
	SqG1
	SqH1
	SqA2
	SqB2
	SqC2
	SqD2
	SqE2
	SqF2
	SqG2
	SqH2
	SqA3
	SqB3
	SqC3
	SqD3
	SqE3
	SqF3
	SqG3
	SqH3
	SqA4
	SqB4
	SqC4
	SqD4
	SqE4
	SqF4
	SqG4
	SqH4
	SqA5
	SqB5
	SqC5
	SqD5
	SqE5
	SqF5
	SqG5
	SqH5
	SqA6
	SqB6
	SqC6
	SqD6
	SqE6
	SqF6
	SqG6
	SqH6
	SqA7
	SqB7
	SqC7
	SqD7
	SqE7
	SqF7
	SqG7
	SqH7
	SqA8
	SqB8
	SqC8
	SqD8
	SqE8
	SqF8
	SqG8
	SqH8
	SqNone
)

// File is the column of a square, A..H.
type File int8

// File constants.
const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
	FileNone
)

// Rank is the row of a square, 1..8.
type Rank int8

// Rank constants.
const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	RankNone
)

// IsValid reports whether sq is one of the 64 board squares.
func (sq Square) IsValid() bool {
	return sq >= SqA1 && sq < SqNone
}

// FileOf returns the file of sq.
func (sq Square) FileOf() File {
	return File(sq & 7)
}

// RankOf returns the rank of sq.
func (sq Square) RankOf() Rank {
	return Rank(sq >> 3)
}

// SquareOf builds a square from a file and a rank, returning SqNone if
// either is out of range.
func SquareOf(f File, r Rank) Square {
	if !f.IsValid() || !r.IsValid() {
		return SqNone
	}
	return Square(int(r)<<3 + int(f))
}

// MakeSquare parses a two character algebraic square name ("e4") into a
// Square, returning SqNone if s is not a valid square name.
func MakeSquare(s string) Square {
	if len(s) != 2 {
		return SqNone
	}
	f := File(s[0] - 'a')
	r := Rank(s[1] - '1')
	return SquareOf(f, r)
}

// String renders sq in algebraic notation, or "-" if invalid.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return sq.FileOf().String() + sq.RankOf().String()
}

// IsValid reports whether f is one of the 8 files.
func (f File) IsValid() bool {
	return f >= FileA && f < FileNone
}

// String renders f as a lowercase letter, "a".."h".
func (f File) String() string {
	if !f.IsValid() {
		return "-"
	}
	return string(rune('a' + int(f)))
}

// IsValid reports whether r is one of the 8 ranks.
func (r Rank) IsValid() bool {
	return r >= Rank1 && r < RankNone
}

// String renders r as a digit, "1".."8".
func (r Rank) String() string {
	if !r.IsValid() {
		return "-"
	}
	return string(rune('1' + int(r)))
}

// Distance returns the Chebyshev distance between two squares, used by the
// move encoder as the step count of a ray move.
func Distance(a, b Square) int {
	fa, fb := int(a.FileOf()), int(b.FileOf())
	ra, rb := int(a.RankOf()), int(b.RankOf())
	df := util.Abs(fa - fb)
	dr := util.Abs(ra - rb)
	return util.Max(df, dr)
}

func (sq Square) GoString() string {
	return fmt.Sprintf("Square(%d:%s)", int(sq), sq.String())
}
