// Copyright (c) The corvid Authors.
// SPDX-License-Identifier: MIT

package mcts

import (
	"context"

	"github.com/corvidchess/corvid/internal/encoding"
	"github.com/corvidchess/corvid/internal/tensor"
)

// RandomEvaluator is a trivial Evaluator: uniform policy logits (decoding
// to a uniform prior over whatever legal moves the decoder masks against)
// and value 0 for every input. It stands in for a trained network in tests
// and as a cmd/ default when no model is configured, grounded on
// original_source/ruky/src/random_eng.rs and random_search.rs — the
// original's "play randomly, no network required" evaluator.
type RandomEvaluator struct{}

// Evaluate implements Evaluator.
func (RandomEvaluator) Evaluate(_ context.Context, inputs []tensor.Input) ([]encoding.Policy, []float64, error) {
	return make([]encoding.Policy, len(inputs)), make([]float64, len(inputs)), nil
}
