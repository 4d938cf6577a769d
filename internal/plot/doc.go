// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package plot writes the figures produced by the exercises.
//
// Output format follows the file extension (.png, .svg, .pdf, ...), as
// decided by gonum/plot.
package plot
