// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package logging is a thin wrapper around "github.com/op/go-logging" that
// pre-wires the backends and format strings used throughout the engine, so
// that callers only ever ask for a named logger.
package logging

import (
	"log"
	"os"

	"github.com/op/go-logging"

	"github.com/corvidchess/corvid/config"
)

var (
	standardLog *logging.Logger
	searchLog   *logging.Logger
	testLog     *logging.Logger

	standardFormat = logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortpkg:-10.10s}:%{shortfile:-16.16s} %{level:-7.7s}:  %{message}`,
	)
)

func init() {
	standardLog = logging.MustGetLogger("standard")
	searchLog = logging.MustGetLogger("search")
	testLog = logging.MustGetLogger("test")
}

// Standard returns the logger used by non-search engine code: board setup,
// the game driver, the cmd/ binaries.
func Standard() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatter := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatter)
	leveled.SetLevel(logging.Level(config.LogLevel), "")
	standardLog.SetBackend(leveled)
	return standardLog
}

// Search returns the logger used by the MCTS scheduler, which runs at its
// own, usually noisier, log level.
func Search() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatter := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatter)
	leveled.SetLevel(logging.Level(config.SearchLogLevel), "")
	searchLog.SetBackend(leveled)
	return searchLog
}

// Test returns a logger preconfigured for use from _test.go files.
func Test() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatter := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatter)
	leveled.SetLevel(logging.DEBUG, "")
	testLog.SetBackend(leveled)
	return testLog
}
