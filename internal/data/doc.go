// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data generates the synthetic datasets used by the exercises.
//
// # Overview
//
// The exercises work on a few kilobytes of in-memory data:
//   - Dense design matrices (xtr, xts) and targets (ytr, yts)
//   - Low-rank matrices M = U·Vᵀ with a sparse set of observed entries
//     (i0, i1, value) for the matrix completion demo
//
// All generators take an explicit *rand.Rand so that every run is
// reproducible from a single seed.
//
// # Basic Usage
//
//	rng := data.NewRand(42)
//	x := data.Normal(rng, 100, 2, 0, 1)
//	f, _ := data.LowRank(rng, 50, 40, 3)
//	entries, _ := data.SampleEntries(rng, f.M, 0.3, 0.01)
package data
