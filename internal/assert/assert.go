// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

// Package assert is a small helper for invariant checks that should not run
// in release builds. Using it marks a check as a development-time
// assertion rather than production error handling.
package assert

import "fmt"

// DEBUG gates whether Assert does any work. The Go compiler eliminates the
// body of Assert entirely when DEBUG is false and this is the only call
// site, so callers should still guard expensive argument expressions with
// their own "if assert.DEBUG { ... }" wrapper.
const DEBUG = false

// Assert panics with msg (formatted like fmt.Sprintf) if test is false.
// No-op when DEBUG is false.
func Assert(test bool, msg string, a ...interface{}) {
	if !DEBUG {
		return
	}
	if !test {
		panic(fmt.Sprintf(msg, a...))
	}
}
