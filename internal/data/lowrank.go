package data

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Factorization is a rank-r matrix M = U·Vᵀ with its factors.
type Factorization struct {
	U *Matrix // [n0, r]
	V *Matrix // [n1, r]
	M *Matrix // [n0, n1]
}

// Rank returns the inner dimension r.
func (f *Factorization) Rank() int {
	return f.U.Cols
}

// LowRank draws U and V from N(0, 1/r) and returns M = U·Vᵀ.
//
// The 1/r variance keeps the entries of M on the order of one regardless
// of the rank.
func LowRank(rng *rand.Rand, n0, n1, rank int) (*Factorization, error) {
	if n0 <= 0 || n1 <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyDataset, n0, n1)
	}
	if rank < 1 || rank > min(n0, n1) {
		return nil, fmt.Errorf("%w: rank %d for a %dx%d matrix", ErrInvalidRank, rank, n0, n1)
	}

	sigma := 1 / math.Sqrt(float64(rank))
	u := Normal(rng, n0, rank, 0, sigma)
	v := Normal(rng, n1, rank, 0, sigma)

	var prod mat.Dense
	prod.Mul(mat.NewDense(n0, rank, u.Float64s()), mat.NewDense(n1, rank, v.Float64s()).T())
	m, err := FromFloat64s(n0, n1, prod.RawMatrix().Data)
	if err != nil {
		return nil, err
	}

	return &Factorization{U: u, V: v, M: m}, nil
}

// Entry is one observed matrix element.
type Entry struct {
	I0    int
	I1    int
	Value float32
}

// SampleEntries observes a fraction of the entries of m without replacement,
// adding N(0, noise²) to each observed value.
//
// At least one entry is always returned.
func SampleEntries(rng *rand.Rand, m *Matrix, fraction, noise float64) ([]Entry, error) {
	total := m.Rows * m.Cols
	if total == 0 {
		return nil, ErrEmptyDataset
	}
	if fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFrac, fraction)
	}

	n := clamp(int(math.Round(fraction*float64(total))), 1, total)
	perm := rng.Perm(total)[:n]

	var dist *distuv.Normal
	if noise > 0 {
		dist = &distuv.Normal{Mu: 0, Sigma: noise, Src: rng}
	}

	entries := make([]Entry, n)
	for k, flat := range perm {
		i0, i1 := flat/m.Cols, flat%m.Cols
		v := m.At(i0, i1)
		if dist != nil {
			v += float32(dist.Rand())
		}
		entries[k] = Entry{I0: i0, I1: i1, Value: v}
	}
	return entries, nil
}

// SplitEntries shuffles entries and holds out testFrac of them.
func SplitEntries(rng *rand.Rand, entries []Entry, testFrac float64) (train, test []Entry, err error) {
	if len(entries) < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 entries to split, got %d", ErrEmptyDataset, len(entries))
	}
	if testFrac <= 0 || testFrac >= 1 {
		return nil, nil, fmt.Errorf("%w: got %v", ErrInvalidFrac, testFrac)
	}

	shuffled := make([]Entry, len(entries))
	copy(shuffled, entries)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTest := clamp(int(math.Round(testFrac*float64(len(entries)))), 1, len(entries)-1)
	return shuffled[nTest:], shuffled[:nTest], nil
}
