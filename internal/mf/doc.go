// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mf is a low-rank matrix completion model built from embedding
// tables.
//
// Each row index i0 and column index i1 owns a learned vector of length
// Rank. The prediction for an entry is the dot product of the two vectors,
// optionally plus a per-row and a per-column bias. Training on a sample of
// observed entries with train.Fit recovers the remaining entries when the
// underlying matrix is close to low rank.
package mf
