package data

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NewRand returns a PCG-backed generator seeded from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Normal returns a rows×cols matrix with entries drawn from N(mu, sigma²).
func Normal(rng *rand.Rand, rows, cols int, mu, sigma float64) *Matrix {
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: rng}
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = float32(dist.Rand())
	}
	return m
}

// Uniform returns a rows×cols matrix with entries drawn from U(lo, hi).
func Uniform(rng *rand.Rand, rows, cols int, lo, hi float64) *Matrix {
	dist := distuv.Uniform{Min: lo, Max: hi, Src: rng}
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = float32(dist.Rand())
	}
	return m
}

// AddNoise adds N(0, sigma²) noise to every element of m in place.
// A zero sigma leaves m unchanged.
func AddNoise(rng *rand.Rand, m *Matrix, sigma float64) {
	if sigma == 0 {
		return
	}
	dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: rng}
	for i := range m.Data {
		m.Data[i] += float32(dist.Rand())
	}
}

// Split holds a train/test partition of (x, y).
type Split struct {
	XTrain *Matrix
	YTrain *Matrix
	XTest  *Matrix
	YTest  *Matrix
}

// SplitTrainTest shuffles the rows of (x, y) and holds out testFrac of them.
//
// At least one row always lands on each side.
func SplitTrainTest(rng *rand.Rand, x, y *Matrix, testFrac float64) (*Split, error) {
	if x.Rows == 0 {
		return nil, ErrEmptyDataset
	}
	if x.Rows != y.Rows {
		return nil, fmt.Errorf("%w: x has %d rows, y has %d", ErrShapeMismatch, x.Rows, y.Rows)
	}
	if testFrac <= 0 || testFrac >= 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFrac, testFrac)
	}
	if x.Rows < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows to split, got %d", ErrEmptyDataset, x.Rows)
	}

	nTest := clamp(int(math.Round(testFrac*float64(x.Rows))), 1, x.Rows-1)
	perm := rng.Perm(x.Rows)

	return &Split{
		XTrain: x.SelectRows(perm[nTest:]),
		YTrain: y.SelectRows(perm[nTest:]),
		XTest:  x.SelectRows(perm[:nTest]),
		YTest:  y.SelectRows(perm[:nTest]),
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
