// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package pieceset holds, per color, the six piece-kind bitboards that make
// up one side of a position and the operations to apply a move, remove a
// captured piece, compute attacked squares, and determine castling
// eligibility. Grounded on original_source/ruky/src/piece_set.rs, with the
// board-wide union split into Board (internal/board) instead of a
// PieceSet-level "other" reference.
package pieceset

import (
	"fmt"

	"github.com/corvidchess/corvid/internal/assert"
	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/magic"
	"github.com/corvidchess/corvid/internal/piece"
)

// Set is one color's set of pieces.
type Set struct {
	king, queen, rook, bishop, knight, pawn bitboard.Bitboard
	all                                     bitboard.Bitboard
	color                                   bitboard.Color
	kingCastle, queenCastle                 bool
}

// InitWhite returns the standard starting position for White.
func InitWhite() Set {
	s := Set{
		king:        bitboard.SqE1.Bb(),
		queen:       bitboard.SqD1.Bb(),
		rook:        bitboard.SqA1.Bb() | bitboard.SqH1.Bb(),
		bishop:      bitboard.SqC1.Bb() | bitboard.SqF1.Bb(),
		knight:      bitboard.SqB1.Bb() | bitboard.SqG1.Bb(),
		pawn:        bitboard.Bitboard(0xff00),
		color:       bitboard.White,
		kingCastle:  true,
		queenCastle: true,
	}
	s.all = s.union()
	return s
}

// InitBlack returns the standard starting position for Black.
func InitBlack() Set {
	s := Set{
		king:        bitboard.SqE8.Bb(),
		queen:       bitboard.SqD8.Bb(),
		rook:        bitboard.SqA8.Bb() | bitboard.SqH8.Bb(),
		bishop:      bitboard.SqC8.Bb() | bitboard.SqF8.Bb(),
		knight:      bitboard.SqB8.Bb() | bitboard.SqG8.Bb(),
		pawn:        bitboard.Bitboard(0xff << 48),
		color:       bitboard.Black,
		kingCastle:  true,
		queenCastle: true,
	}
	s.all = s.union()
	return s
}

func (s *Set) union() bitboard.Bitboard {
	return s.king | s.queen | s.rook | s.bishop | s.knight | s.pawn
}

// King, Queens, Rooks, Bishops, Knights, Pawns, and All expose the
// individual and combined occupancy bitboards.
func (s Set) King() bitboard.Bitboard    { return s.king }
func (s Set) Queens() bitboard.Bitboard  { return s.queen }
func (s Set) Rooks() bitboard.Bitboard   { return s.rook }
func (s Set) Bishops() bitboard.Bitboard { return s.bishop }
func (s Set) Knights() bitboard.Bitboard { return s.knight }
func (s Set) Pawns() bitboard.Bitboard   { return s.pawn }
func (s Set) All() bitboard.Bitboard     { return s.all }
func (s Set) Color() bitboard.Color      { return s.color }

// HasKingCastle and HasQueenCastle report remaining castling rights.
func (s Set) HasKingCastle() bool  { return s.kingCastle }
func (s Set) HasQueenCastle() bool { return s.queenCastle }

// FindKind returns the kind of the piece occupying sq, if any.
func (s Set) FindKind(sq bitboard.Square) (piece.Kind, bool) {
	for _, pk := range s.kindBoards() {
		if pk.board.Has(sq) {
			return pk.kind, true
		}
	}
	return piece.KindNone, false
}

type kindBoard struct {
	kind  piece.Kind
	board bitboard.Bitboard
}

// kindBoards returns per-kind boards in King,Queen,Rook,Bishop,Knight,Pawn
// order, the same traversal order as the original PieceIter.
func (s Set) kindBoards() [6]kindBoard {
	return [6]kindBoard{
		{piece.King, s.king},
		{piece.Queen, s.queen},
		{piece.Rook, s.rook},
		{piece.Bishop, s.bishop},
		{piece.Knight, s.knight},
		{piece.Pawn, s.pawn},
	}
}

// AttackSquares splits the squares a Set attacks into those occupied by an
// opposing piece and empty squares, mirroring the original's distinction
// (used by movegen to tell a capture from a quiet move, and by castling to
// build a combined "attacked" bitboard).
type AttackSquares struct {
	Pieces   bitboard.Bitboard
	NoPieces bitboard.Bitboard
}

// All returns every attacked square, occupied or not.
func (a AttackSquares) All() bitboard.Bitboard {
	return a.Pieces | a.NoPieces
}

// Attacks computes the squares s attacks given the opposing Set and the
// shared magic tables. s and other must be opposite colors.
func (s Set) Attacks(other Set, tables *magic.Tables) AttackSquares {
	assert.Assert(s.color != other.color, "Attacks: sets must be opposite colors")

	blockers := s.all | other.all
	empty := ^blockers

	var a AttackSquares

	moves := bitboard.KingMoves(s.king)
	a.Pieces |= moves & other.all
	a.NoPieces |= moves & empty

	moves = bitboard.KnightMoves(s.knight)
	a.Pieces |= moves & other.all
	a.NoPieces |= moves & empty

	if s.color == bitboard.White {
		moves = bitboard.WhitePawnAttacksLeft(s.pawn)
		a.Pieces |= moves & other.all
		a.NoPieces |= moves & empty
		moves = bitboard.WhitePawnAttacksRight(s.pawn)
		a.Pieces |= moves & other.all
		a.NoPieces |= moves & empty
	} else {
		moves = bitboard.BlackPawnAttacksLeft(s.pawn)
		a.Pieces |= moves & other.all
		a.NoPieces |= moves & empty
		moves = bitboard.BlackPawnAttacksRight(s.pawn)
		a.Pieces |= moves & other.all
		a.NoPieces |= moves & empty
	}

	for _, sq := range s.bishop.Squares() {
		moves = tables.Attacks(magic.Bishop, sq, blockers)
		a.Pieces |= moves & other.all
		a.NoPieces |= moves & empty
	}
	for _, sq := range s.rook.Squares() {
		moves = tables.Attacks(magic.Rook, sq, blockers)
		a.Pieces |= moves & other.all
		a.NoPieces |= moves & empty
	}
	for _, sq := range s.queen.Squares() {
		moves = tables.QueenAttacks(sq, blockers)
		a.Pieces |= moves & other.all
		a.NoPieces |= moves & empty
	}

	return a
}

// updateBit moves the bit at from to to within b, returning an error if the
// precondition (from set, to clear) does not hold.
func updateBit(b bitboard.Bitboard, from, to bitboard.Square) (bitboard.Bitboard, error) {
	if !b.Has(from) {
		return b, piece.ErrBadFromSquare(from)
	}
	if b.Has(to) {
		return b, piece.ErrBadToSquare(to)
	}
	return b.Clear(from).Set(to), nil
}

// ApplyMove updates s for a move made by the side s represents. Captures
// must additionally be applied to the opposing Set via RemoveCaptured. On
// error, s is left unmodified.
func (s *Set) ApplyMove(mv piece.Piece[piece.PieceMove]) error {
	switch mv.Kind {
	case piece.King:
		return s.updateKing(mv.Val)
	case piece.Pawn:
		return s.updatePawn(mv.Val)
	case piece.Queen, piece.Rook, piece.Bishop, piece.Knight:
		return s.simpleUpdate(mv.Val, mv.Kind)
	default:
		return piece.ErrWrongVariant(mv.Kind, mv.Val)
	}
}

func (s *Set) updateKing(mv piece.PieceMove) error {
	switch mv.Kind {
	case piece.Simple, piece.Capture:
		king, err := updateBit(s.king, mv.From, mv.To)
		if err != nil {
			return err
		}
		all, err := updateBit(s.all, mv.From, mv.To)
		if err != nil {
			return err
		}
		s.king, s.all = king, all
	case piece.Castle:
		king, err := updateBit(s.king, mv.KingFrom, mv.KingTo)
		if err != nil {
			return err
		}
		rook, err := updateBit(s.rook, mv.RookFrom, mv.RookTo)
		if err != nil {
			return err
		}
		all, err := updateBit(s.all, mv.KingFrom, mv.KingTo)
		if err != nil {
			return err
		}
		all, err = updateBit(all, mv.RookFrom, mv.RookTo)
		if err != nil {
			return err
		}
		s.king, s.rook, s.all = king, rook, all
	default:
		return piece.ErrWrongVariant(piece.King, mv)
	}
	s.kingCastle = false
	s.queenCastle = false
	return nil
}

func (s *Set) updatePawn(mv piece.PieceMove) error {
	switch mv.Kind {
	case piece.Simple, piece.Capture, piece.EnPassant:
		pawn, err := updateBit(s.pawn, mv.From, mv.To)
		if err != nil {
			return err
		}
		all, err := updateBit(s.all, mv.From, mv.To)
		if err != nil {
			return err
		}
		s.pawn, s.all = pawn, all
	case piece.Promo, piece.PromoCap:
		if !s.pawn.Has(mv.From) {
			return piece.ErrBadFromSquare(mv.From)
		}
		promoBoard, err := promoTarget(s, mv.Promoted)
		if err != nil {
			return err
		}
		if promoBoard.Has(mv.To) {
			return piece.ErrBadToSquare(mv.To)
		}
		all, err := updateBit(s.all, mv.From, mv.To)
		if err != nil {
			return err
		}
		s.pawn = s.pawn.Clear(mv.From)
		*promoBoard = promoBoard.Set(mv.To)
		s.all = all
	default:
		return piece.ErrWrongVariant(piece.Pawn, mv)
	}
	return nil
}

func promoTarget(s *Set, k piece.Kind) (*bitboard.Bitboard, error) {
	switch k {
	case piece.Queen:
		return &s.queen, nil
	case piece.Rook:
		return &s.rook, nil
	case piece.Bishop:
		return &s.bishop, nil
	case piece.Knight:
		return &s.knight, nil
	default:
		return nil, piece.ErrBadPromotionTarget(k)
	}
}

func (s *Set) pieceBoard(k piece.Kind) *bitboard.Bitboard {
	switch k {
	case piece.Queen:
		return &s.queen
	case piece.Rook:
		return &s.rook
	case piece.Bishop:
		return &s.bishop
	case piece.Knight:
		return &s.knight
	default:
		return nil
	}
}

func (s *Set) simpleUpdate(mv piece.PieceMove, kind piece.Kind) error {
	board := s.pieceBoard(kind)
	assert.Assert(board != nil, "simpleUpdate: unsupported kind %v", kind)

	switch mv.Kind {
	case piece.Simple, piece.Capture:
		updated, err := updateBit(*board, mv.From, mv.To)
		if err != nil {
			return err
		}
		all, err := updateBit(s.all, mv.From, mv.To)
		if err != nil {
			return err
		}
		*board, s.all = updated, all
		if kind == piece.Rook {
			s.maybeLoseCastleRightsForRookMove(mv.From)
		}
		return nil
	default:
		return piece.ErrWrongVariant(kind, mv)
	}
}

func (s *Set) maybeLoseCastleRightsForRookMove(from bitboard.Square) {
	switch {
	case s.color == bitboard.White && from == bitboard.SqA1,
		s.color == bitboard.Black && from == bitboard.SqA8:
		s.queenCastle = false
	case s.color == bitboard.White && from == bitboard.SqH1,
		s.color == bitboard.Black && from == bitboard.SqH8:
		s.kingCastle = false
	}
}

// RemoveCaptured removes the piece captured by mv (made by the opposing
// Set) from s. Returns an error if mv is not a capturing move.
func (s *Set) RemoveCaptured(mv piece.PieceMove) error {
	switch mv.Kind {
	case piece.Capture, piece.PromoCap:
		board := s.pieceBoard(mv.Captured)
		if mv.Captured == piece.King {
			board = &s.king
		} else if mv.Captured == piece.Pawn {
			board = &s.pawn
		}
		assert.Assert(board != nil, "RemoveCaptured: unsupported captured kind %v", mv.Captured)
		if !board.Has(mv.To) {
			return errNothingToCapture(mv.To)
		}
		if mv.Captured == piece.Rook {
			s.maybeLoseCastleRightsForRookMove(mv.To)
		}
		*board = board.Clear(mv.To)
		s.all = s.all.Clear(mv.To)
		return nil
	case piece.EnPassant:
		if !s.pawn.Has(mv.PassantSq) {
			return errNothingToCapture(mv.PassantSq)
		}
		s.pawn = s.pawn.Clear(mv.PassantSq)
		s.all = s.all.Clear(mv.PassantSq)
		return nil
	default:
		return piece.ErrWrongVariant(piece.KindNone, mv)
	}
}

// errNothingToCapture reports a capture whose target square holds no piece
// of the claimed kind, with the BadToSquare error kind.
func errNothingToCapture(sq bitboard.Square) error {
	return &piece.MoveError{Kind: piece.BadToSquare, Msg: fmt.Sprintf("move: no piece to capture on %v", sq)}
}

// Castle returns the king-side and queen-side castling moves available to
// s, or nil for a side that is not currently eligible. attacked is every
// square the opposing side attacks. Unlike a mask-compare over a single
// combined "blocked" word, the king's own square is checked against
// attacked explicitly, since an attacked-but-occupied-by-own-king square
// and a merely-occupied one are otherwise indistinguishable once folded
// into one bitboard.
func (s Set) Castle(other Set, attacked bitboard.Bitboard) (kingSide, queenSide *piece.Piece[piece.PieceMove]) {
	assert.Assert(s.color != other.color, "Castle: sets must be opposite colors")

	if !s.kingCastle && !s.queenCastle {
		return nil, nil
	}

	kingSq, kRookFrom, kRookTo, kKingTo := bitboard.SqE1, bitboard.SqH1, bitboard.SqF1, bitboard.SqG1
	qRookFrom, qRookTo, qKingTo := bitboard.SqA1, bitboard.SqD1, bitboard.SqC1
	if s.color == bitboard.Black {
		kingSq, kRookFrom, kRookTo, kKingTo = bitboard.SqE8, bitboard.SqH8, bitboard.SqF8, bitboard.SqG8
		qRookFrom, qRookTo, qKingTo = bitboard.SqA8, bitboard.SqD8, bitboard.SqC8
	}

	if attacked.Has(kingSq) {
		// In check: neither side can castle.
		return nil, nil
	}

	occupied := s.all | other.all

	if s.kingCastle {
		transit := kRookTo.Bb() | kKingTo.Bb()
		if occupied&transit == 0 && attacked&transit == 0 && s.rook.Has(kRookFrom) {
			mv := piece.New(piece.King, piece.NewCastle(kingSq, kKingTo, kRookFrom, kRookTo))
			kingSide = &mv
		}
	}
	if s.queenCastle {
		blockSquares := qRookTo.Bb() | qKingTo.Bb() | bitboard.SquareOf(bitboard.FileB, kingSq.RankOf()).Bb()
		attackSquares := qRookTo.Bb() | qKingTo.Bb()
		if occupied&blockSquares == 0 && attacked&attackSquares == 0 && s.rook.Has(qRookFrom) {
			mv := piece.New(piece.King, piece.NewCastle(kingSq, qKingTo, qRookFrom, qRookTo))
			queenSide = &mv
		}
	}
	return kingSide, queenSide
}
