// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linreg provides ordinary least-squares regression on gonum matrices.
//
// In the exercises it is used to fit the output layer of a sigmoid network
// from its hidden-unit activations: when the targets were produced by the
// network itself (no noise), the fitted coefficients and intercept are the
// generating Wo and bo.
//
// # Basic Usage
//
//	r := linreg.New(true)
//	if err := r.Fit(h, y); err != nil {
//	    return err
//	}
//	wo, bo := r.Coef(), r.Intercept()
//	r2, _ := r.Score(hTest, yTest)
package linreg
