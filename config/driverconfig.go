// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package config

// driverConfiguration holds the parameters of the self-play/match game
// driver (internal/driver).
type driverConfiguration struct {
	// MaxMoves is the maximum number of plies before a game is reported as
	// a Draw even if the position is not otherwise terminal.
	MaxMoves int
}

func init() {
	Settings.Driver = driverConfiguration{
		MaxMoves: 512,
	}
}

func setupDriver() {
	if Settings.Driver.MaxMoves <= 0 {
		Settings.Driver.MaxMoves = 512
	}
}
