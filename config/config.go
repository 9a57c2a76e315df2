// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package config holds the process-wide configuration for the engine,
// loaded from a TOML file with programmatic defaults and overridable by
// command line flags in the cmd/ binaries.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ConfFile is the path to the configuration file, settable before Setup()
// is called (e.g. from a command line flag).
var ConfFile = "./config.toml"

var (
	// LogLevel is the general log level, set by defaults and overridden by
	// the config file.
	LogLevel = 2

	// SearchLogLevel is the log level used by the MCTS scheduler's own
	// logger, which tends to be noisier than the standard logger.
	SearchLogLevel = 2

	// Settings is the global configuration tree read from ConfFile.
	Settings conf

	initialized = false
)

type conf struct {
	Log    logConfiguration
	Search searchConfiguration
	Driver driverConfiguration
}

// Setup reads ConfFile (if present) and applies defaults for any value
// left unset. It is safe to call more than once; only the first call has
// an effect.
func Setup() {
	if initialized {
		return
	}
	if _, err := toml.DecodeFile(ConfFile, &Settings); err != nil {
		fmt.Println(err)
	}
	setupLogLvl()
	setupSearch()
	setupDriver()
	initialized = true
}

// LogLevels maps config-file/command-line log level names to the numeric
// levels used by internal/logging.
var LogLevels = map[string]int{
	"off":      -1,
	"critical": 0,
	"error":    1,
	"warning":  2,
	"notice":   3,
	"info":     4,
	"debug":    5,
}
