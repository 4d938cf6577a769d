// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package lab runs the course exercises end to end.
//
//   - RunForward computes a network's output by hand and with the
//     framework model and compares the two.
//   - RunRegression recovers the output layer of a network by least
//     squares on its hidden-unit activations.
//   - RunTrain fits a network to data labelled by a random network.
//   - RunComplete fills in a partially observed low-rank matrix with an
//     embedding model.
//
// Each runner returns a report and, when Options.PlotDir is set, writes its
// figures there.
package lab
