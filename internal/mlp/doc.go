// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mlp implements the one-hidden-layer sigmoid network used in the
// forward-pass exercises.
//
// # Overview
//
// The network is
//
//	h = σ(x·Wh + bh)      // hidden units, σ(z) = 1/(1+exp(-z))
//	ŷ = h·Wo + bo         // linear output
//
// with Wh of shape [nin, nh] and Wo of shape [nh, nout].
//
// Two renditions are provided:
//   - Hidden and Forward compute the formula directly with tensor arithmetic
//     (MatMul, Add, Exp, Div), the "by hand" version of the exercise.
//   - Net builds the same architecture from Born layers (Linear, Sigmoid,
//     Linear) so it can be trained with autodiff.
//
// Net.Load copies a Weights value into the layers, after which both
// renditions agree to float32 precision.
//
// # Basic Usage
//
//	w := mlp.RandomWeights(rng, 2, 4, 1, 1.0)
//	yhat, err := mlp.Forward(x, w)
//
//	backend := autodiff.New(cpu.New())
//	net := mlp.NewNet(2, 4, 1, backend)
//	_ = net.Load(w)
//	out := net.Forward(input)
package mlp
