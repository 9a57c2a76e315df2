// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Command match plays a round of games between two evaluators and prints
// the resulting scoreline. Grounded on
// original_source/ruky/src/bin/play_match.rs's flag surface (games,
// batch-size, workers), re-expressed with Go's flag package the way
// frankkopp-FrankyGo/cmd/FrankyGo/main.go does.
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
	games := flag.Int("games", 10, "number of games to play")
	batchSize := flag.Int("batchsize", 0, "evaluator batch size (0 = use config.toml)")
	workers := flag.Int("workers", 0, "encoder/decoder workers per scheduler (0 = use config.toml)")
	maxMoves := flag.Int("maxmoves", 0, "maximum plies before a game is reported a draw (0 = use config.toml)")
	flag.Parse()

	config.ConfFile = *configFile
	config.Setup()

	if *batchSize > 0 {
		config.Settings.Search.BatchSize = *batchSize
	}
	if *workers > 0 {
		config.Settings.Search.Workers = *workers
	}
	if *maxMoves > 0 {
		config.Settings.Driver.MaxMoves = *maxMoves
	}

	tables, err := magic.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "match: building magic tables:", err)
		os.Exit(1)
	}
	start := board.New(tables)

	cfg := mcts.Config{
		Simulations:   config.Settings.Search.Simulations,
		BatchSize:     config.Settings.Search.BatchSize,
		Workers:       config.Settings.Search.Workers,
		SampleActions: config.Settings.Search.SampleActions,
		TreeParams: tree.Params{
			CBase:            config.Settings.Search.CBase,
			CInit:            config.Settings.Search.CInit,
			DirichletAlpha:   config.Settings.Search.DirichletAlpha,
			DirichletEpsilon: config.Settings.Search.DirichletEpsilon,
		},
	}

	out.Printf("Running a match of %d games...\n", *games)
	// Player 1 and player 2 both default to RandomEvaluator until a model
	// loader is wired up; this still exercises the full match loop
	// end-to-end (color alternation, scoreline tallying).
	result, err := driver.PlayMatch(context.Background(), mcts.RandomEvaluator{}, mcts.RandomEvaluator{}, cfg, start, *games, config.Settings.Driver.MaxMoves)
	if err != nil {
		fmt.Fprintln(os.Stderr, "match: playing match:", err)
		os.Exit(1)
	}

	out.Printf("Match finished: %s\n", result.Summarize())
}
