// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs mini-batch regression training on a Born autodiff backend.
//
// # Overview
//
// Fit drives the usual Born training step:
//
//	optimizer.ZeroGrad()
//	backend.Tape().StartRecording()
//	pred := model.Forward(batch)
//	grads := backend.Tape().Backward(dLoss/dPred, backend)
//	optimizer.Step(grads)
//	backend.Tape().Clear()
//
// The loss is the mean squared error between predictions and targets. Its
// gradient with respect to the predictions is seeded directly into the tape,
// so the last operation recorded by Forward must produce the predictions.
//
// Models that carry a weight penalty implement Regularizer; the penalty
// gradient is added to the tape gradients before the optimizer step.
//
// # Basic Usage
//
//	type B = *autodiff.Backend[*cpu.Backend]
//
//	backend := autodiff.New(cpu.New())
//	net := mlp.NewNet(2, 8, 1, backend)
//	trainSet, err := train.NewDenseDataset[B](xtr, ytr)
//	...
//	hist, err := train.Fit[B, *tensor.Tensor[float32, B]](ctx, backend, net, trainSet, nil, cfg)
package train
