// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package board

import (
	"github.com/corvidchess/corvid/internal/bitboard"
	"github.com/corvidchess/corvid/internal/magic"
	"github.com/corvidchess/corvid/internal/piece"
	"github.com/corvidchess/corvid/internal/pieceset"
)

// pseudoLegalMoves enumerates every pseudo-legal move for mover against
// opponent: a move is included if it obeys piece movement rules, without
// yet checking whether it leaves mover's own king in check. attackedByOpp
// is the full set of squares opponent attacks, needed for castling
// legality. Grounded on frankkopp-FrankyGo's movegen.go per-piece-kind
// generation loops (shift-based pawns, per-square sliding pieces), rather
// than the original Rust source, which never implements movegen.
func pseudoLegalMoves(mover, opponent pieceset.Set, tables *magic.Tables, passantFile bitboard.File, attackedByOpp bitboard.Bitboard) []piece.Piece[piece.PieceMove] {
	var moves []piece.Piece[piece.PieceMove]
	moves = append(moves, genPawnMoves(mover, opponent, passantFile)...)
	moves = append(moves, genKnightMoves(mover, opponent)...)
	moves = append(moves, genSlidingMoves(piece.Bishop, magic.Bishop, mover, opponent, tables)...)
	moves = append(moves, genSlidingMoves(piece.Rook, magic.Rook, mover, opponent, tables)...)
	moves = append(moves, genSlidingMoves(piece.Queen, magic.Bishop /* unused */, mover, opponent, tables)...)
	moves = append(moves, genKingMoves(mover, opponent, attackedByOpp)...)
	return moves
}

func buildSimpleOrCapture(kind piece.Kind, from, to bitboard.Square, opponent pieceset.Set) piece.Piece[piece.PieceMove] {
	if opponent.All().Has(to) {
		capturedKind, _ := opponent.FindKind(to)
		return piece.New(kind, piece.NewCapture(from, to, capturedKind))
	}
	return piece.New(kind, piece.NewSimple(from, to))
}

func genKingMoves(mover, opponent pieceset.Set, attackedByOpp bitboard.Bitboard) []piece.Piece[piece.PieceMove] {
	var moves []piece.Piece[piece.PieceMove]
	from := kingSquare(mover)
	targets := bitboard.KingMoves(from.Bb()) &^ mover.All()
	for _, to := range targets.Squares() {
		moves = append(moves, buildSimpleOrCapture(piece.King, from, to, opponent))
	}
	kingSide, queenSide := mover.Castle(opponent, attackedByOpp)
	if kingSide != nil {
		moves = append(moves, *kingSide)
	}
	if queenSide != nil {
		moves = append(moves, *queenSide)
	}
	return moves
}

func genKnightMoves(mover, opponent pieceset.Set) []piece.Piece[piece.PieceMove] {
	var moves []piece.Piece[piece.PieceMove]
	for _, from := range mover.Knights().Squares() {
		targets := bitboard.KnightMoves(from.Bb()) &^ mover.All()
		for _, to := range targets.Squares() {
			moves = append(moves, buildSimpleOrCapture(piece.Knight, from, to, opponent))
		}
	}
	return moves
}

// genSlidingMoves generates bishop, rook, or queen moves. For Queen, slider
// is ignored in favor of tables.QueenAttacks.
func genSlidingMoves(kind piece.Kind, slider magic.Slider, mover, opponent pieceset.Set, tables *magic.Tables) []piece.Piece[piece.PieceMove] {
	var moves []piece.Piece[piece.PieceMove]
	occupied := mover.All() | opponent.All()

	var board bitboard.Bitboard
	switch kind {
	case piece.Bishop:
		board = mover.Bishops()
	case piece.Rook:
		board = mover.Rooks()
	case piece.Queen:
		board = mover.Queens()
	}

	for _, from := range board.Squares() {
		var attacks bitboard.Bitboard
		if kind == piece.Queen {
			attacks = tables.QueenAttacks(from, occupied)
		} else {
			attacks = tables.Attacks(slider, from, occupied)
		}
		targets := attacks &^ mover.All()
		for _, to := range targets.Squares() {
			moves = append(moves, buildSimpleOrCapture(kind, from, to, opponent))
		}
	}
	return moves
}

func rankBb(r bitboard.Rank) bitboard.Bitboard {
	return bitboard.Rank1Bb << uint(8*int(r))
}

func genPawnMoves(mover, opponent pieceset.Set, passantFile bitboard.File) []piece.Piece[piece.PieceMove] {
	var moves []piece.Piece[piece.PieceMove]
	color := mover.Color()
	occupied := mover.All() | opponent.All()
	pawns := mover.Pawns()

	pushDir := bitboard.North
	promoRank := bitboard.Rank8
	intermediateRank := bitboard.Rank3
	leftDir, rightDir := bitboard.Northwest, bitboard.Northeast
	leftAttacks, rightAttacks := bitboard.WhitePawnAttacksLeft(pawns), bitboard.WhitePawnAttacksRight(pawns)
	epCaptureRank, epLandingRank := bitboard.Rank5, bitboard.Rank6
	if color == bitboard.Black {
		pushDir = bitboard.South
		promoRank = bitboard.Rank1
		intermediateRank = bitboard.Rank6
		leftDir, rightDir = bitboard.Southwest, bitboard.Southeast
		leftAttacks, rightAttacks = bitboard.BlackPawnAttacksLeft(pawns), bitboard.BlackPawnAttacksRight(pawns)
		epCaptureRank, epLandingRank = bitboard.Rank4, bitboard.Rank3
	}

	singlePush := bitboard.PawnPush(pawns, color) &^ occupied
	for _, to := range singlePush.Squares() {
		from := to.To(pushDir.Opposite())
		appendPawnAdvance(&moves, from, to, promoRank)
	}

	doublePush := bitboard.PawnPush(singlePush&rankBb(intermediateRank), color) &^ occupied
	for _, to := range doublePush.Squares() {
		from := to.To(pushDir.Opposite()).To(pushDir.Opposite())
		moves = append(moves, piece.New(piece.Pawn, piece.NewSimple(from, to)))
	}

	for _, pair := range [...]struct {
		targets bitboard.Bitboard
		dir     bitboard.Direction
	}{{leftAttacks, leftDir}, {rightAttacks, rightDir}} {
		captures := pair.targets & opponent.All()
		for _, to := range captures.Squares() {
			from := to.To(pair.dir.Opposite())
			capturedKind, _ := opponent.FindKind(to)
			appendPawnCapture(&moves, from, to, capturedKind, promoRank)
		}
	}

	if passantFile.IsValid() {
		capturedSq := bitboard.SquareOf(passantFile, epCaptureRank)
		landingSq := bitboard.SquareOf(passantFile, epLandingRank)
		for _, adjFile := range [...]bitboard.File{passantFile - 1, passantFile + 1} {
			if !adjFile.IsValid() {
				continue
			}
			from := bitboard.SquareOf(adjFile, epCaptureRank)
			if mover.Pawns().Has(from) {
				moves = append(moves, piece.New(piece.Pawn, piece.NewEnPassant(from, landingSq, capturedSq)))
			}
		}
	}

	return moves
}

var promoKinds = [...]piece.Kind{piece.Queen, piece.Rook, piece.Bishop, piece.Knight}

func appendPawnAdvance(moves *[]piece.Piece[piece.PieceMove], from, to bitboard.Square, promoRank bitboard.Rank) {
	if to.RankOf() == promoRank {
		for _, promo := range promoKinds {
			*moves = append(*moves, piece.New(piece.Pawn, piece.NewPromo(from, to, promo)))
		}
		return
	}
	*moves = append(*moves, piece.New(piece.Pawn, piece.NewSimple(from, to)))
}

func appendPawnCapture(moves *[]piece.Piece[piece.PieceMove], from, to bitboard.Square, captured piece.Kind, promoRank bitboard.Rank) {
	if to.RankOf() == promoRank {
		for _, promo := range promoKinds {
			*moves = append(*moves, piece.New(piece.Pawn, piece.NewPromoCap(from, to, promo, captured)))
		}
		return
	}
	*moves = append(*moves, piece.New(piece.Pawn, piece.NewCapture(from, to, captured)))
}

func kingSquare(s pieceset.Set) bitboard.Square {
	kingBb := s.King()
	sq, _ := bitboard.TakeFirst(&kingBb)
	return sq
}

// applyAndCheckLegal applies mv (made by mover) to copies of mover and
// opponent and reports whether the resulting position leaves mover's own
// king safe. mover/opponent are plain structs, so copying them is just a
// handful of uint64s, not a deep clone.
func applyAndCheckLegal(mover, opponent pieceset.Set, mv piece.Piece[piece.PieceMove], tables *magic.Tables) (pieceset.Set, pieceset.Set, bool) {
	newMover := mover
	if err := newMover.ApplyMove(mv); err != nil {
		return pieceset.Set{}, pieceset.Set{}, false
	}
	newOpponent := opponent
	if mv.Val.IsCapture() {
		if err := newOpponent.RemoveCaptured(mv.Val); err != nil {
			return pieceset.Set{}, pieceset.Set{}, false
		}
	}
	attacked := newOpponent.Attacks(newMover, tables)
	if attacked.All().Has(kingSquare(newMover)) {
		return pieceset.Set{}, pieceset.Set{}, false
	}
	return newMover, newOpponent, true
}
