// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package board holds the full position type: piece placement for both
// sides, castling/en-passant/move-clock state, termination classification,
// and legal successor enumeration. Grounded on
// frankkopp-FrankyGo/internal/position/position.go's mover/opponent split
// and move-counter bookkeeping, since original_source/ruky never ships a
// board.rs alongside its tree_search.rs and piece_set.rs (confirmed via
// original_source/_INDEX.md's file manifest).
package board

import (
	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/magic"
	"github.com/corvidchess/corvid/internal/piece"
	"github.com/corvidchess/corvid/internal/pieceset"
)

// StateKind classifies a Board from the perspective of the side to move.
type StateKind int

// StateKind constants.
const (
	Next StateKind = iota
	Check
	Mate
	Draw
)

var stateKindNames = [...]string{"next", "check", "mate", "draw"}

func (k StateKind) String() string {
	if int(k) < 0 || int(k) >= len(stateKindNames) {
		return "invalid"
	}
	return stateKindNames[k]
}

// GameState pairs a StateKind with the color it is reported for (the side
// to move at the time of classification).
type GameState struct {
	Kind  StateKind
	Color bitboard.Color
}

// IsTerminal reports whether no further move can follow this state.
func (g GameState) IsTerminal() bool {
	return g.Kind == Mate || g.Kind == Draw
}

// Board is one position: mover is the side to move, opponent the other
// side. The split (rather than White/Black-indexed arrays) mirrors
// piece_set.rs's own mover/other framing and lets movegen and attack code
// stay color-agnostic.
type Board struct {
	tables *magic.Tables

	mover, opponent      pieceset.Set
	myAttacks, oppAttacks pieceset.AttackSquares

	state GameState

	halfMoves, fullMoves uint16
	passantFile          bitboard.File

	lastMove *piece.Piece[piece.PieceMove]

	// hashHistory holds StateHash() for this position and every ancestor
	// since the last capture or pawn move (the last point any of them
	// could repeat), used by threefold-repetition detection.
	hashHistory []uint64
}

// New returns the standard starting position, White to move.
func New(tables *magic.Tables) Board {
	b := Board{
		tables:      tables,
		mover:       pieceset.InitWhite(),
		opponent:    pieceset.InitBlack(),
		fullMoves:   1,
		passantFile: bitboard.FileNone,
	}
	b.myAttacks = b.mover.Attacks(b.opponent, tables)
	b.oppAttacks = b.opponent.Attacks(b.mover, tables)
	b.hashHistory = []uint64{b.computeHash()}
	b.state = b.classify()
	return b
}

// Mover returns the piece set of the side to move.
func (b Board) Mover() pieceset.Set { return b.mover }

// Opponent returns the piece set of the side not to move.
func (b Board) Opponent() pieceset.Set { return b.opponent }

// Color returns the side to move.
func (b Board) Color() bitboard.Color { return b.mover.Color() }

// State returns the current termination classification.
func (b Board) State() GameState { return b.state }

// IsTerminal reports whether the game has ended at this Board.
func (b Board) IsTerminal() bool { return b.state.IsTerminal() }

// IsMate reports whether the side to move is checkmated.
func (b Board) IsMate() bool { return b.state.Kind == Mate }

// IsCheck reports whether the side to move is in check (whether or not it
// also happens to be mate).
func (b Board) IsCheck() bool {
	return b.oppAttacks.All().Has(kingSquare(b.mover))
}

// HalfMoves and FullMoves expose the move-clock counters.
func (b Board) HalfMoves() uint16 { return b.halfMoves }
func (b Board) FullMoves() uint16 { return b.fullMoves }

// PassantFile returns the file a pawn may capture en passant on, or
// bitboard.FileNone if none is available.
func (b Board) PassantFile() bitboard.File { return b.passantFile }

// LastMove returns the move that produced this Board, or false for the
// initial position.
func (b Board) LastMove() (piece.Piece[piece.PieceMove], bool) {
	if b.lastMove == nil {
		return piece.Piece[piece.PieceMove]{}, false
	}
	return *b.lastMove, true
}

// StateHash returns this position's Zobrist-style hash, used for
// transposition, repetition, and subtree-reuse lookup.
func (b Board) StateHash() uint64 {
	return b.hashHistory[len(b.hashHistory)-1]
}

// RepetitionCount returns how many times this exact position (by Zobrist
// hash) has occurred since the last capture or pawn move, counting this
// occurrence itself — so a fresh position reports 1.
func (b Board) RepetitionCount() int {
	target := b.StateHash()
	count := 0
	for _, h := range b.hashHistory {
		if h == target {
			count++
		}
	}
	return count
}

// NextBoards enumerates every legal successor of b. The second return
// value is false iff b is terminal, in which case no successors exist.
func (b Board) NextBoards() ([]Board, bool) {
	if b.state.IsTerminal() {
		return nil, false
	}
	moves := pseudoLegalMoves(b.mover, b.opponent, b.tables, b.passantFile, b.oppAttacks.All())
	children := make([]Board, 0, len(moves))
	for _, mv := range moves {
		newMover, newOpponent, ok := applyAndCheckLegal(b.mover, b.opponent, mv, b.tables)
		if !ok {
			continue
		}
		children = append(children, b.buildChild(newMover, newOpponent, mv))
	}
	return children, true
}

// buildChild assembles the position that follows mv: movedSide is mover's
// piece set after applying mv, otherSide is opponent's piece set after any
// capture has been removed from it.
func (b Board) buildChild(movedSide, otherSide pieceset.Set, mv piece.Piece[piece.PieceMove]) Board {
	child := Board{tables: b.tables}
	child.mover = otherSide
	child.opponent = movedSide
	child.myAttacks = child.mover.Attacks(child.opponent, b.tables)
	child.oppAttacks = child.opponent.Attacks(child.mover, b.tables)

	irreversible := mv.Kind == piece.Pawn || mv.Val.IsCapture()
	if irreversible {
		child.halfMoves = 0
	} else {
		child.halfMoves = b.halfMoves + 1
	}

	child.fullMoves = b.fullMoves
	if movedSide.Color() == bitboard.Black {
		child.fullMoves++
	}

	child.passantFile = bitboard.FileNone
	if mv.Kind == piece.Pawn && mv.Val.Kind == piece.Simple {
		from, to := mv.Val.FromTo()
		if from.FileOf() == to.FileOf() {
			rankDiff := int(to.RankOf()) - int(from.RankOf())
			if rankDiff == 2 || rankDiff == -2 {
				child.passantFile = from.FileOf()
			}
		}
	}

	mvCopy := mv
	child.lastMove = &mvCopy

	newHash := child.computeHash()
	if irreversible {
		child.hashHistory = []uint64{newHash}
	} else {
		history := make([]uint64, len(b.hashHistory)+1)
		copy(history, b.hashHistory)
		history[len(b.hashHistory)] = newHash
		child.hashHistory = history
	}

	child.state = child.classify()
	return child
}

// classify determines this Board's GameState: Mate/Draw if the side to
// move has no legal move (accounting for check), Check if it has a move
// but its king is attacked, Next otherwise. Determining "has a legal move"
// costs one bounded round of move generation and legality filtering on
// this position only — it never recurses into grandchildren.
func (b *Board) classify() GameState {
	color := b.mover.Color()
	inCheck := b.oppAttacks.All().Has(kingSquare(b.mover))

	if b.isDrawByRule() {
		return GameState{Kind: Draw, Color: color}
	}
	if !b.hasLegalMove() {
		if inCheck {
			return GameState{Kind: Mate, Color: color}
		}
		return GameState{Kind: Draw, Color: color}
	}
	if inCheck {
		return GameState{Kind: Check, Color: color}
	}
	return GameState{Kind: Next, Color: color}
}

func (b *Board) hasLegalMove() bool {
	moves := pseudoLegalMoves(b.mover, b.opponent, b.tables, b.passantFile, b.oppAttacks.All())
	for _, mv := range moves {
		if _, _, ok := applyAndCheckLegal(b.mover, b.opponent, mv, b.tables); ok {
			return true
		}
	}
	return false
}

// isDrawByRule reports the three automatic draws this engine detects: the
// 50-move rule, insufficient material, and threefold repetition. Grounded
// on treepeck-chego/game/game.go's IsInsufficientMaterial/
// IsThreefoldRepetition, adapted to compare Zobrist hashes instead of FEN
// strings.
func (b *Board) isDrawByRule() bool {
	if b.halfMoves >= 100 {
		return true
	}
	if b.isInsufficientMaterial() {
		return true
	}
	target := b.StateHash()
	count := 0
	for _, h := range b.hashHistory {
		if h == target {
			count++
		}
	}
	return count >= 3
}

// darkSquares marks every square an a1-style "dark" bishop lives on, used to
// tell same-colored bishops apart in the K+B vs K+B case below.
const darkSquares = bitboard.Bitboard(0xAA55AA55AA55AA55)

func (b *Board) isInsufficientMaterial() bool {
	heavy := b.mover.Queens() | b.mover.Rooks() | b.mover.Pawns() |
		b.opponent.Queens() | b.opponent.Rooks() | b.opponent.Pawns()
	if heavy != 0 {
		return false
	}

	moverMinors := b.mover.Bishops().PopCount() + b.mover.Knights().PopCount()
	oppMinors := b.opponent.Bishops().PopCount() + b.opponent.Knights().PopCount()

	if moverMinors == 0 && oppMinors == 0 {
		return true // bare king vs bare king
	}
	if moverMinors+oppMinors == 1 {
		return true // lone king vs king+one minor
	}
	if moverMinors == 1 && oppMinors == 1 {
		if b.mover.Knights().PopCount() == 1 && b.opponent.Knights().PopCount() == 1 {
			return true // K+N vs K+N
		}
		if b.mover.Bishops().PopCount() == 1 && b.opponent.Bishops().PopCount() == 1 {
			moverDark := b.mover.Bishops()&darkSquares != 0
			oppDark := b.opponent.Bishops()&darkSquares != 0
			return moverDark == oppDark // K+B vs K+B, only drawn same-colored
		}
	}
	return false
}

// computeHash folds piece placement, castling rights, en-passant file, and
// side to move into a single Zobrist key via the independent random table
// built in zobrist.go.
func (b *Board) computeHash() uint64 {
	h := hashSet(b.mover) ^ hashSet(b.opponent)
	if b.mover.Color() == bitboard.Black {
		h ^= zobrist.sideToMove
	}
	if b.passantFile.IsValid() {
		h ^= zobrist.enPassantFile[b.passantFile]
	} else {
		h ^= zobrist.enPassantFile[8]
	}
	return h
}

func hashSet(s pieceset.Set) uint64 {
	c := int(s.Color())
	var h uint64
	for _, kb := range [...]struct {
		kind  piece.Kind
		board bitboard.Bitboard
	}{
		{piece.King, s.King()},
		{piece.Queen, s.Queens()},
		{piece.Rook, s.Rooks()},
		{piece.Bishop, s.Bishops()},
		{piece.Knight, s.Knights()},
		{piece.Pawn, s.Pawns()},
	} {
		for _, sq := range kb.board.Squares() {
			h ^= zobrist.pieces[c][kb.kind][sq]
		}
	}
	if s.HasKingCastle() {
		h ^= zobrist.castling[c][0]
	}
	if s.HasQueenCastle() {
		h ^= zobrist.castling[c][1]
	}
	return h
}
