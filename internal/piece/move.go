// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package piece

import (
	"fmt"

	"github.com/corvidchess/corvid/internal/bitboard"
)

// MoveKind is the closed set of PieceMove variants.
type MoveKind uint8

// MoveKind constants.
const (
	Simple MoveKind = iota
	Capture
	Castle
	EnPassant
	Promo
	PromoCap
)

// PieceMove is a tagged-variant move: the Kind selects which fields are
// meaningful, mirroring the spec's
// Simple{from,to} | Capture{from,to,captured} | Castle{...} |
// EnPassant{from,to,passant_sq} | Promo{from,to,promoted} |
// PromoCap{from,to,promoted,captured} sum type.
type PieceMove struct {
	Kind MoveKind

	From, To bitboard.Square

	// Capture, PromoCap.
	Captured Kind

	// Castle.
	KingFrom, KingTo, RookFrom, RookTo bitboard.Square

	// EnPassant.
	PassantSq bitboard.Square

	// Promo, PromoCap.
	Promoted Kind
}

// NewSimple builds a Simple{from,to} move.
func NewSimple(from, to bitboard.Square) PieceMove {
	return PieceMove{Kind: Simple, From: from, To: to}
}

// NewCapture builds a Capture{from,to,captured} move.
func NewCapture(from, to bitboard.Square, captured Kind) PieceMove {
	return PieceMove{Kind: Capture, From: from, To: to, Captured: captured}
}

// NewCastle builds a Castle{king_from,king_to,rook_from,rook_to} move.
func NewCastle(kingFrom, kingTo, rookFrom, rookTo bitboard.Square) PieceMove {
	return PieceMove{
		Kind:     Castle,
		From:     kingFrom,
		To:       kingTo,
		KingFrom: kingFrom, KingTo: kingTo,
		RookFrom: rookFrom, RookTo: rookTo,
	}
}

// NewEnPassant builds an EnPassant{from,to,passant_sq} move.
func NewEnPassant(from, to, passant bitboard.Square) PieceMove {
	return PieceMove{Kind: EnPassant, From: from, To: to, PassantSq: passant}
}

// NewPromo builds a Promo{from,to,promoted} move.
func NewPromo(from, to bitboard.Square, promoted Kind) PieceMove {
	return PieceMove{Kind: Promo, From: from, To: to, Promoted: promoted}
}

// NewPromoCap builds a PromoCap{from,to,promoted,captured} move.
func NewPromoCap(from, to bitboard.Square, promoted, captured Kind) PieceMove {
	return PieceMove{Kind: PromoCap, From: from, To: to, Promoted: promoted, Captured: captured}
}

// IsCapture reports whether mv removes an opponent piece from the board.
func (mv PieceMove) IsCapture() bool {
	return mv.Kind == Capture || mv.Kind == EnPassant || mv.Kind == PromoCap
}

// IsKingCapture reports whether mv captures a king; used as a cheap
// in-check detector by callers that generate pseudo-legal moves.
func (mv PieceMove) IsKingCapture() bool {
	return (mv.Kind == Capture || mv.Kind == PromoCap) && mv.Captured == King
}

// FromTo returns the (from,to) squares of mv. For Castle this is the
// king's origin and destination.
func (mv PieceMove) FromTo() (bitboard.Square, bitboard.Square) {
	return mv.From, mv.To
}

// IsPromo reports whether mv promotes a pawn.
func (mv PieceMove) IsPromo() bool {
	return mv.Kind == Promo || mv.Kind == PromoCap
}

// PromoKind returns the kind a pawn is promoted to and true, or
// (KindNone, false) if mv is not a promotion.
func (mv PieceMove) PromoKind() (Kind, bool) {
	if !mv.IsPromo() {
		return KindNone, false
	}
	return mv.Promoted, true
}

func (mv PieceMove) String() string {
	switch mv.Kind {
	case Simple:
		return fmt.Sprintf("%v-%v", mv.From, mv.To)
	case Capture:
		return fmt.Sprintf("%vx%v(%v)", mv.From, mv.To, mv.Captured)
	case Castle:
		return fmt.Sprintf("O-O %v-%v/%v-%v", mv.KingFrom, mv.KingTo, mv.RookFrom, mv.RookTo)
	case EnPassant:
		return fmt.Sprintf("%vx%v e.p.(%v)", mv.From, mv.To, mv.PassantSq)
	case Promo:
		return fmt.Sprintf("%v-%v=%v", mv.From, mv.To, mv.Promoted)
	case PromoCap:
		return fmt.Sprintf("%vx%v=%v(%v)", mv.From, mv.To, mv.Promoted, mv.Captured)
	default:
		return "invalid-move"
	}
}

// MoveErrKind identifies the class of failure reported by MoveError.
type MoveErrKind int

// MoveErrKind constants, per spec §7.
const (
	BadFromSquare MoveErrKind = iota
	BadToSquare
	BadPromotionTarget
	WrongVariantForKind
)

// MoveError reports an illegal move application. No partial state is left
// behind by the caller when MoveError is returned.
type MoveError struct {
	Kind MoveErrKind
	Msg  string
}

func (e *MoveError) Error() string {
	return e.Msg
}

func errBadFromSquare(sq bitboard.Square) error {
	return &MoveError{Kind: BadFromSquare, Msg: fmt.Sprintf("move: source square %v is not set", sq)}
}

func errBadToSquare(sq bitboard.Square) error {
	return &MoveError{Kind: BadToSquare, Msg: fmt.Sprintf("move: destination square %v is already set", sq)}
}

func errBadPromotionTarget(k Kind) error {
	return &MoveError{Kind: BadPromotionTarget, Msg: fmt.Sprintf("move: cannot promote to %v", k)}
}

func errWrongVariant(k Kind, mv PieceMove) error {
	return &MoveError{Kind: WrongVariantForKind, Msg: fmt.Sprintf("move: %v is not a valid move variant for %v", mv, k)}
}

// ErrBadFromSquare, ErrBadToSquare, ErrBadPromotionTarget, and
// ErrWrongVariant are exported constructors usable by other packages
// (internal/pieceset) that need to report the same error kinds.
var (
	ErrBadFromSquare     = errBadFromSquare
	ErrBadToSquare       = errBadToSquare
	ErrBadPromotionTarget = errBadPromotionTarget
	ErrWrongVariant      = errWrongVariant
)
