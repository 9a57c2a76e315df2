// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package magic builds and serves magic-bitboard attack tables for the
// sliding pieces (rook, bishop), using the same "fancy" perfect-hashing
// approach and xorshift64* magic search as Stockfish, ported from
// frankkopp-FrankyGo's internal/types/magic.go.
package magic

import (
	"github.com/corvidchess/corvid/internal/bitboard"
)

// Slider distinguishes the two slider piece kinds that magic tables serve.
type Slider int

// Slider kinds.
const (
	Rook Slider = iota
	Bishop
)

var rookDirections = [4]bitboard.Direction{bitboard.North, bitboard.East, bitboard.South, bitboard.West}
var bishopDirections = [4]bitboard.Direction{bitboard.Northeast, bitboard.Southeast, bitboard.Southwest, bitboard.Northwest}

// entry holds the per-square magic for one slider kind.
type entry struct {
	mask    bitboard.Bitboard
	number  bitboard.Bitboard
	attacks []bitboard.Bitboard
	shift   uint
}

func (e *entry) index(occupied bitboard.Bitboard) uint {
	occ := occupied & e.mask
	occ *= e.number
	return uint(occ >> e.shift)
}

// Tables holds the complete set of rook and bishop magic attack tables,
// read-only once constructed and safe to share by reference across all
// search goroutines.
type Tables struct {
	rook   [64]entry
	bishop [64]entry
}

// New constructs a fresh set of magic tables. Construction can take a few
// milliseconds; the result should be built once at process start and
// shared, never rebuilt per-search.
func New() (*Tables, error) {
	t := &Tables{}
	if err := initSlider(t.rook[:], rookDirections); err != nil {
		return nil, err
	}
	if err := initSlider(t.bishop[:], bishopDirections); err != nil {
		return nil, err
	}
	return t, nil
}

// Attacks returns the attack bitboard for a slider of the given kind on sq
// given the board occupancy. Total for any sq in [0,64) and any occupied
// once the tables are constructed.
func (t *Tables) Attacks(kind Slider, sq bitboard.Square, occupied bitboard.Bitboard) bitboard.Bitboard {
	var e *entry
	if kind == Rook {
		e = &t.rook[sq]
	} else {
		e = &t.bishop[sq]
	}
	return e.attacks[e.index(occupied)]
}

// QueenAttacks is the union of rook and bishop attacks from sq, used by
// piece sets for queen move generation.
func (t *Tables) QueenAttacks(sq bitboard.Square, occupied bitboard.Bitboard) bitboard.Bitboard {
	return t.Attacks(Rook, sq, occupied) | t.Attacks(Bishop, sq, occupied)
}

// seeds are per-rank PRNG seeds hand-picked (by the Stockfish authors) to
// find a valid magic in the fewest attempts; carried over unchanged since
// they have no domain meaning beyond "known to terminate quickly".
var seeds = [8]uint64{728, 10316, 55013, 32803, 12281, 15100, 16645, 255}

func initSlider(table []entry, directions [4]bitboard.Direction) error {
	for sqIdx := 0; sqIdx < 64; sqIdx++ {
		e, err := buildEntry(sqIdx, directions)
		if err != nil {
			return err
		}
		table[sqIdx] = e
	}
	return nil
}

// buildEntry searches out the magic number and attack table for one square.
// sqIdx is validated explicitly, mirroring original_source/src/magics.rs's
// find_magic bound check, rather than relying on initSlider's own loop
// bounds to keep sqIdx in range.
func buildEntry(sqIdx int, directions [4]bitboard.Direction) (entry, error) {
	if sqIdx < 0 || sqIdx >= 64 {
		return entry{}, errInvalidSquare(sqIdx)
	}
	sq := bitboard.Square(sqIdx)

	var e entry
	var occupancy, reference [4096]bitboard.Bitboard
	var epoch [4096]int

	edges := ((bitboard.Rank1Bb | bitboard.Rank8Bb) &^ rankBb(sq.RankOf())) |
		((bitboard.FileABb | bitboard.FileHBb) &^ fileBb(sq.FileOf()))
	e.mask = slidingAttack(directions, sq, bitboard.Zero) &^ edges

	bitsSet := e.mask.PopCount()
	if bitsSet < 5 || bitsSet > 12 {
		return entry{}, errNumBits(sqIdx, bitsSet)
	}
	e.shift = uint(64 - bitsSet)
	e.attacks = make([]bitboard.Bitboard, 1<<uint(bitsSet))

	// Carry-Rippler: enumerate every subset of mask.
	size := 0
	var b bitboard.Bitboard
	for {
		occupancy[size] = b
		reference[size] = slidingAttack(directions, sq, b)
		size++
		b = (b - e.mask) & e.mask
		if b == 0 {
			break
		}
	}

	rng := newPrnG(seeds[sq.RankOf()])
	cnt := 0
	found := false
	for attempt := 0; attempt < 1_000_000 && !found; attempt++ {
		var magicNum bitboard.Bitboard
		for {
			magicNum = bitboard.Bitboard(rng.sparseRand())
			if ((magicNum * e.mask) >> 56).PopCount() < 6 {
				break
			}
		}
		e.number = magicNum
		cnt++
		ok := true
		for i := 0; i < size; i++ {
			idx := e.index(occupancy[i])
			if epoch[idx] < cnt {
				epoch[idx] = cnt
				e.attacks[idx] = reference[i]
			} else if e.attacks[idx] != reference[i] {
				ok = false
				break
			}
		}
		if ok {
			found = true
		}
	}
	if !found {
		return entry{}, errNotFound(sqIdx)
	}
	return e, nil
}

// slidingAttack ray-traces the four directions from sq across occupied,
// stopping at (and including) the first blocker in each direction. Used
// only at table-construction time; not efficient enough for hot paths.
func slidingAttack(directions [4]bitboard.Direction, sq bitboard.Square, occupied bitboard.Bitboard) bitboard.Bitboard {
	var attack bitboard.Bitboard
	for _, d := range directions {
		s := sq
		for {
			next := s.To(d)
			if next == bitboard.SqNone {
				break
			}
			s = next
			attack = attack.Set(s)
			if occupied.Has(s) {
				break
			}
		}
	}
	return attack
}

func rankBb(r bitboard.Rank) bitboard.Bitboard {
	return bitboard.Rank1Bb << uint(8*int(r))
}

func fileBb(f bitboard.File) bitboard.Bitboard {
	return bitboard.FileABb << uint(f)
}

// prnG is the xorshift64* PRNG used by Stockfish to search for magics:
// dedicated to the public domain by Sebastiano Vigna (2014).
type prnG struct {
	s uint64
}

func newPrnG(seed uint64) *prnG {
	return &prnG{s: seed}
}

func (r *prnG) rand64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

// sparseRand produces values with roughly 1/8th of their bits set on
// average, which converges to a valid magic faster than uniform random
// 64-bit values.
func (r *prnG) sparseRand() uint64 {
	return r.rand64() & r.rand64() & r.rand64()
}
