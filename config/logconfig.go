// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package config

type logConfiguration struct {
	LogLvl       string
	SearchLogLvl string
}

func init() {
	Settings.Log.LogLvl = "info"
	Settings.Log.SearchLogLvl = "info"
}

func setupLogLvl() {
	if Settings.Log.LogLvl != "" {
		if lvl, ok := LogLevels[Settings.Log.LogLvl]; ok {
			LogLevel = lvl
		}
	}
	if Settings.Log.SearchLogLvl != "" {
		if lvl, ok := LogLevels[Settings.Log.SearchLogLvl]; ok {
			SearchLogLevel = lvl
		}
	}
}
