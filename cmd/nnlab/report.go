package main

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/lab"
	"github.com/born-ml/nnlab/internal/linreg"
)

func printForward(w io.Writer, r *lab.ForwardReport) {
	fmt.Fprintf(w, "Network %d-%d-%d, %d samples\n\n", r.Weights.Nin, r.Weights.Nh, r.Weights.Nout, r.X.Rows)
	fmt.Fprintf(w, "Hidden activations:\n%s\n", formatMatrix(r.Hidden))
	fmt.Fprintf(w, "Output (by hand):\n%s\n", formatMatrix(r.Hand))
	fmt.Fprintf(w, "Output (framework):\n%s\n", formatMatrix(r.Framework))
	fmt.Fprintf(w, "Max |difference|: %.3g\n", r.MaxAbsDiff)
}

func printRegression(w io.Writer, r *lab.RegressionReport) {
	wo, err := data.FromSlice(r.Weights.Nh, r.Weights.Nout, r.Weights.Wo)
	if err == nil {
		fmt.Fprintf(w, "True wo:\n%s\n", formatMatrix(wo))
	}
	fmt.Fprintf(w, "Fit  wo:\n%s\n", formatMatrix(r.Coef))
	fmt.Fprintf(w, "True bo: %v\n", r.Weights.Bo)
	fmt.Fprintf(w, "Fit  bo: %.6g\n\n", r.Intercept)
	fmt.Fprintf(w, "Max |error|: %.3g\n", r.MaxErr)
	fmt.Fprintf(w, "R² train: %.6f  test: %.6f\n", r.TrainR2, r.TestR2)
}

func printTrain(w io.Writer, r *lab.TrainReport) {
	best, bestLoss := r.History.Best()
	loss, valLoss := r.History.Final()
	fmt.Fprintf(w, "Epochs: %d\n", r.History.Epochs())
	fmt.Fprintf(w, "Final loss: %.5f  validation: %.5f\n", loss, valLoss)
	fmt.Fprintf(w, "Best validation: %.5f (epoch %d)\n", bestLoss, best+1)
	fmt.Fprintf(w, "Test MSE: %.5f  RMSE: %.5f  MAE: %.5f (n=%d)\n",
		r.Test.MSE, r.Test.RMSE(), r.Test.MAE, r.Test.N)
}

func printComplete(w io.Writer, r *lab.CompleteReport) {
	fmt.Fprintf(w, "Matrix %dx%d, %d observed entries\n", r.Truth.Rows, r.Truth.Cols, r.Observed)
	fmt.Fprintf(w, "Epochs: %d\n", r.History.Epochs())
	fmt.Fprintf(w, "RMSE train: %.5f  test: %.5f\n", r.TrainRMSE, r.TestRMSE)
}

// formatMatrix renders m row by row with gonum's matrix formatter.
func formatMatrix(m *data.Matrix) string {
	return fmt.Sprintf("%.5f", mat.Formatted(linreg.Dense(m), mat.Squeeze()))
}
