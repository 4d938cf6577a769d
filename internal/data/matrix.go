package data

import "fmt"

// Matrix is a dense row-major float32 matrix.
//
// Matrix is the exchange format between the data generators, the Born
// tensors used by the models, and the gonum matrices used by linreg.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// NewMatrix allocates a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("data: invalid matrix shape %dx%d", rows, cols))
	}
	return &Matrix{
		Rows: rows,
		Cols: cols,
		Data: make([]float32, rows*cols),
	}
}

// FromSlice wraps data as a rows×cols matrix without copying.
func FromSlice(rows, cols int, values []float32) (*Matrix, error) {
	if rows*cols != len(values) {
		return nil, fmt.Errorf("%w: %dx%d requires %d elements, got %d",
			ErrShapeMismatch, rows, cols, rows*cols, len(values))
	}
	return &Matrix{Rows: rows, Cols: cols, Data: values}, nil
}

// FromRows copies a slice of equally sized rows into a matrix.
func FromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrShapeMismatch, i, len(row), cols)
		}
		copy(m.Data[i*cols:], row)
	}
	return m, nil
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) float32 {
	return m.Data[i*m.Cols+j]
}

// Set stores v at (i, j).
func (m *Matrix) Set(i, j int, v float32) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a view of row i. Writes go through to the matrix.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Column returns a copy of column j.
func (m *Matrix) Column(j int) []float32 {
	col := make([]float32, m.Rows)
	for i := range col {
		col[i] = m.At(i, j)
	}
	return col
}

// T returns the transpose as a new matrix.
func (m *Matrix) T() *Matrix {
	out := NewMatrix(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Set(j, i, m.At(i, j))
		}
	}
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.Rows, m.Cols)
	copy(out.Data, m.Data)
	return out
}

// SelectRows gathers the given rows into a new matrix.
func (m *Matrix) SelectRows(idx []int) *Matrix {
	out := NewMatrix(len(idx), m.Cols)
	for k, i := range idx {
		copy(out.Row(k), m.Row(i))
	}
	return out
}

// Float64s returns the elements widened to float64 in row-major order.
func (m *Matrix) Float64s() []float64 {
	out := make([]float64, len(m.Data))
	for i, v := range m.Data {
		out[i] = float64(v)
	}
	return out
}

// FromFloat64s narrows row-major float64 values into a new matrix.
func FromFloat64s(rows, cols int, values []float64) (*Matrix, error) {
	if rows*cols != len(values) {
		return nil, fmt.Errorf("%w: %dx%d requires %d elements, got %d",
			ErrShapeMismatch, rows, cols, rows*cols, len(values))
	}
	m := NewMatrix(rows, cols)
	for i, v := range values {
		m.Data[i] = float32(v)
	}
	return m, nil
}

// String implements fmt.Stringer.
func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix(%dx%d)", m.Rows, m.Cols)
}
