// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Command selfplay plays a single game of an engine against itself using
// the batched MCTS scheduler, printing the resulting trajectory summary.
// Flag/config sequencing follows
// frankkopp-FrankyGo/cmd/FrankyGo/main.go: parse flags, load config.toml,
// let flags override it, then run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corvidchess/corvid/config"
	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/driver"
	"github.com/corvidchess/corvid/internal/magic"
	"github.com/corvidchess/corvid/internal/mcts"
	"github.com/corvidchess/corvid/internal/tree"
)

var out = message.NewPrinter(language.German)

func main() {
	configFile := flag.String("config", "./config.toml", "path to configuration settings file")
	simulations := flag.Int("simulations", 0, "simulations per move (0 = use config.toml)")
	maxMoves := flag.Int("maxmoves", 0, "maximum plies before the game is reported a draw (0 = use config.toml)")
	seed := flag.Int64("seed", 1, "PRNG seed for noise and action sampling")
	sampleActions := flag.Bool("sample", false, "sample moves proportional to visit count instead of always taking the most visited")
	flag.Parse()

	config.ConfFile = *configFile
	config.Setup()

	if *simulations > 0 {
		config.Settings.Search.Simulations = *simulations
	}
	if *maxMoves > 0 {
		config.Settings.Driver.MaxMoves = *maxMoves
	}

	tables, err := magic.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "selfplay: building magic tables:", err)
		os.Exit(1)
	}
	start := board.New(tables)

	cfg := mcts.Config{
		Simulations:   config.Settings.Search.Simulations,
		BatchSize:     config.Settings.Search.BatchSize,
		Workers:       config.Settings.Search.Workers,
		SampleActions: *sampleActions,
		Seed:          *seed,
		TreeParams: tree.Params{
			CBase:            config.Settings.Search.CBase,
			CInit:            config.Settings.Search.CInit,
			DirichletAlpha:   config.Settings.Search.DirichletAlpha,
			DirichletEpsilon: config.Settings.Search.DirichletEpsilon,
		},
	}
	sched := mcts.New(mcts.RandomEvaluator{}, cfg)

	out.Println("Starting a game of self play...")
	result, err := driver.PlayGame(context.Background(), sched, start, config.Settings.Driver.MaxMoves)
	if err != nil {
		fmt.Fprintln(os.Stderr, "selfplay: playing game:", err)
		os.Exit(1)
	}

	out.Printf("Finished in %d moves: %s\n", result.MovesPlayed, result.Summarize())
	out.Printf("Recorded %d training samples.\n", len(result.Trajectory))
}
