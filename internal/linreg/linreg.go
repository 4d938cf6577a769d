package linreg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/nnlab/internal/data"
)

// Common errors.
var (
	ErrShapeMismatch = errors.New("linreg: shape mismatch")
	ErrNotFitted     = errors.New("linreg: model is not fitted")
	ErrSingular      = errors.New("linreg: design matrix is rank deficient")
	ErrEmpty         = errors.New("linreg: no samples")
)

// maxCond is the largest design-matrix condition number accepted by Fit.
const maxCond = 1e12

// exactTol is the per-sample squared residual treated as an exact fit.
const exactTol = 1e-18

// Regression is an ordinary least-squares estimator with optional intercept.
//
// Multi-output targets are supported: y of shape [n, k] yields a
// coefficient matrix of shape [p, k] and k intercepts.
type Regression struct {
	FitIntercept bool

	coef      *mat.Dense // [p, k]
	intercept []float64  // [k]
}

// New creates an unfitted regression.
func New(fitIntercept bool) *Regression {
	return &Regression{FitIntercept: fitIntercept}
}

// Fit solves min ‖X·β − y‖² with a QR factorization.
//
// Returns ErrSingular when the design matrix (including the intercept
// column) is rank deficient or too ill-conditioned to solve reliably.
func (r *Regression) Fit(x, y mat.Matrix) error {
	n, p := x.Dims()
	ny, k := y.Dims()
	if n == 0 || p == 0 {
		return ErrEmpty
	}
	if n != ny {
		return fmt.Errorf("%w: x has %d rows, y has %d", ErrShapeMismatch, n, ny)
	}

	design := x
	cols := p
	if r.FitIntercept {
		design = withOnes(x)
		cols = p + 1
	}
	if n < cols {
		return fmt.Errorf("%w: %d samples for %d unknowns", ErrSingular, n, cols)
	}

	var qr mat.QR
	qr.Factorize(design)
	if c := qr.Cond(); c > maxCond {
		return fmt.Errorf("%w: condition number %.3g", ErrSingular, c)
	}

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}

	r.coef = mat.NewDense(p, k, nil)
	r.coef.Copy(beta.Slice(0, p, 0, k))
	r.intercept = make([]float64, k)
	if r.FitIntercept {
		mat.Row(r.intercept, p, &beta)
	}
	return nil
}

// Predict returns X·β + intercept.
func (r *Regression) Predict(x mat.Matrix) (*mat.Dense, error) {
	if r.coef == nil {
		return nil, ErrNotFitted
	}
	n, p := x.Dims()
	if n == 0 {
		return nil, ErrEmpty
	}
	cp, k := r.coef.Dims()
	if p != cp {
		return nil, fmt.Errorf("%w: x has %d features, model has %d", ErrShapeMismatch, p, cp)
	}

	out := mat.NewDense(n, k, nil)
	out.Mul(x, r.coef)
	for i := 0; i < n; i++ {
		floats.Add(out.RawRowView(i), r.intercept)
	}
	return out, nil
}

// Score returns the coefficient of determination R², averaged uniformly
// over outputs.
//
// A constant target column scores 1 when predicted to within rounding and
// 0 otherwise.
func (r *Regression) Score(x, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(x)
	if err != nil {
		return 0, err
	}
	n, k := y.Dims()
	pn, pk := pred.Dims()
	if n != pn || k != pk {
		return 0, fmt.Errorf("%w: y is %dx%d, predictions are %dx%d", ErrShapeMismatch, n, k, pn, pk)
	}

	truth := make([]float64, n)
	est := make([]float64, n)
	var total float64
	for j := 0; j < k; j++ {
		mat.Col(truth, j, y)
		mat.Col(est, j, pred)

		if floats.Max(truth) > floats.Min(truth) {
			total += stat.RSquaredFrom(est, truth, nil)
			continue
		}
		if d := floats.Distance(truth, est, 2); d*d <= exactTol*float64(n) {
			total++
		}
	}
	return total / float64(k), nil
}

// Coef returns the fitted coefficients [p, k], or nil before Fit.
func (r *Regression) Coef() *mat.Dense {
	return r.coef
}

// Intercept returns the fitted intercepts [k], or nil before Fit.
// All zeros when FitIntercept is false.
func (r *Regression) Intercept() []float64 {
	return r.intercept
}

// withOnes returns x with a trailing column of ones.
func withOnes(x mat.Matrix) *mat.Dense {
	n, p := x.Dims()
	out := mat.NewDense(n, p+1, nil)
	out.Slice(0, n, 0, p).(*mat.Dense).Copy(x)
	for i := 0; i < n; i++ {
		out.Set(i, p, 1)
	}
	return out
}

// Dense converts a data.Matrix into a gonum matrix.
func Dense(m *data.Matrix) *mat.Dense {
	return mat.NewDense(m.Rows, m.Cols, m.Float64s())
}

// Matrix converts a gonum matrix back into a data.Matrix.
func Matrix(d mat.Matrix) *data.Matrix {
	n, k := d.Dims()
	m := data.NewMatrix(n, k)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			m.Set(i, j, float32(d.At(i, j)))
		}
	}
	return m
}
