// Package tensor defines the shared data model for distribution-valued
// matrix completion: a 4-D measurement tensor whose cells hold empirical
// samples, the per-cell observation mask, and cell addressing.
package tensor

// CellStatus is the integer observation code of a single mask cell
type CellStatus int

const (
	// Unobserved marks a cell with no usable measurement
	Unobserved CellStatus = 0

	// Observed marks a cell whose sample vector is usable
	Observed CellStatus = 1

	// Withheld marks an observed cell deliberately hidden from the
	// estimator, e.g. by the cross-validation loop or a treatment
	// assignment. It is treated exactly like Unobserved by all
	// downstream computation.
	Withheld CellStatus = 2
)

// Index addresses a single (row, column) cell of the tensor
type Index struct {
	// Row is the row (unit) index
	Row int

	// Col is the column (time period) index
	Col int
}

// Tensor holds distribution-valued measurements with shape
// (rows, cols, samples, dims): each (row, column) cell contains an
// empirical sample of `SampleCount` draws, each draw having `Dims`
// scalar components. The Wasserstein estimator requires Dims == 1.
type Tensor struct {
	// Data is the measurement data as a 1D array in row-major
	// (row, column, sample, dim) order
	Data []float64

	// Rows is the number of rows (units) in the tensor
	Rows int

	// Cols is the number of columns (time periods) in the tensor
	Cols int

	// SampleCount is the number of sample draws per cell
	SampleCount int

	// Dims is the number of scalar components per draw
	Dims int
}

// NewTensor allocates a zero-filled tensor with the given shape.
//
// Parameters:
//   - rows: number of rows (units)
//   - cols: number of columns (time periods)
//   - samples: number of draws per cell
//   - dims: number of scalar components per draw
func NewTensor(rows, cols, samples, dims int) *Tensor {
	return &Tensor{
		Data:        make([]float64, rows*cols*samples*dims),
		Rows:        rows,
		Cols:        cols,
		SampleCount: samples,
		Dims:        dims,
	}
}

// cellOffset returns the position of cell (i, j)'s first value in Data
func (t *Tensor) cellOffset(i, j int) int {
	return (i*t.Cols + j) * t.SampleCount * t.Dims
}

// Sample returns the sample block of cell (i, j) as a slice view of
// length SampleCount*Dims. The view aliases the tensor's backing array:
// writes through it modify the tensor.
func (t *Tensor) Sample(i, j int) []float64 {
	off := t.cellOffset(i, j)
	return t.Data[off : off+t.SampleCount*t.Dims]
}

// SetSample copies vals into the sample block of cell (i, j).
// len(vals) must equal SampleCount*Dims.
func (t *Tensor) SetSample(i, j int, vals []float64) {
	copy(t.Sample(i, j), vals)
}

// At returns the s-th draw of cell (i, j), first measurement dimension
func (t *Tensor) At(i, j, s int) float64 {
	return t.Data[t.cellOffset(i, j)+s*t.Dims]
}

// SetAt sets the s-th draw of cell (i, j), first measurement dimension
func (t *Tensor) SetAt(i, j, s int, v float64) {
	t.Data[t.cellOffset(i, j)+s*t.Dims] = v
}

// Clone returns a deep copy of the tensor
func (t *Tensor) Clone() *Tensor {
	cp := *t
	cp.Data = make([]float64, len(t.Data))
	copy(cp.Data, t.Data)
	return &cp
}

// Mask holds the per-cell observation status of a (rows, cols) tensor
type Mask struct {
	// Data is the status codes as a 1D array in row-major order
	Data []CellStatus

	// Rows is the number of rows in the mask
	Rows int

	// Cols is the number of columns in the mask
	Cols int
}

// NewMask allocates a mask with every cell Unobserved
func NewMask(rows, cols int) *Mask {
	return &Mask{
		Data: make([]CellStatus, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// At returns the status of cell (i, j)
func (m *Mask) At(i, j int) CellStatus {
	return m.Data[i*m.Cols+j]
}

// Set sets the status of cell (i, j)
func (m *Mask) Set(i, j int, status CellStatus) {
	m.Data[i*m.Cols+j] = status
}

// Fill sets every cell to the given status
func (m *Mask) Fill(status CellStatus) {
	for k := range m.Data {
		m.Data[k] = status
	}
}

// IsObserved reports whether cell (i, j) is usable
func (m *Mask) IsObserved(i, j int) bool {
	return m.At(i, j) == Observed
}

// Clone returns a deep copy of the mask
func (m *Mask) Clone() *Mask {
	cp := *m
	cp.Data = make([]CellStatus, len(m.Data))
	copy(cp.Data, m.Data)
	return &cp
}

// CountObserved returns the number of Observed cells
func (m *Mask) CountObserved() int {
	count := 0
	for _, s := range m.Data {
		if s == Observed {
			count++
		}
	}
	return count
}

// ObservedIndices returns the addresses of all Observed cells in
// row-major order
func (m *Mask) ObservedIndices() []Index {
	inds := make([]Index, 0, m.CountObserved())
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if m.IsObserved(i, j) {
				inds = append(inds, Index{Row: i, Col: j})
			}
		}
	}
	return inds
}

// UnobservedIndices returns the addresses of all cells that are not
// Observed (codes Unobserved and Withheld) in row-major order
func (m *Mask) UnobservedIndices() []Index {
	inds := make([]Index, 0, m.Rows*m.Cols-m.CountObserved())
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if !m.IsObserved(i, j) {
				inds = append(inds, Index{Row: i, Col: j})
			}
		}
	}
	return inds
}
