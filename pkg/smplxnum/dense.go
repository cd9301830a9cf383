package smplxnum

import "fmt"

// RowMat is a dense row-major float32 matrix. Row i occupies
// data[i*cols : i*cols+cols]; this is the layout used for per-vertex and
// per-joint quantities (verts, joints_shaped, full pose) where a caller
// almost always wants "all columns of row i" contiguously.
type RowMat struct {
	data       []float32
	rows, cols int
}

// NewRowMat allocates a zeroed (rows, cols) row-major matrix.
func NewRowMat(rows, cols int) *RowMat {
	return &RowMat{data: make([]float32, rows*cols), rows: rows, cols: cols}
}

// RowMatFromData wraps an existing flat row-major slice without copying.
func RowMatFromData(data []float32, rows, cols int) *RowMat {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("smplxnum: RowMatFromData length %d != %d*%d", len(data), rows, cols))
	}
	return &RowMat{data: data, rows: rows, cols: cols}
}

func (m *RowMat) Rows() int { return m.rows }
func (m *RowMat) Cols() int { return m.cols }

// Row returns the backing slice for row i; mutations through it are visible
// in the matrix.
func (m *RowMat) Row(i int) []float32 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// At returns element (i, j).
func (m *RowMat) At(i, j int) float32 {
	return m.data[i*m.cols+j]
}

// Set assigns element (i, j).
func (m *RowMat) Set(i, j int, v float32) {
	m.data[i*m.cols+j] = v
}

// RowVec3 returns row i as a Vec3; cols must be 3.
func (m *RowMat) RowVec3(i int) Vec3 {
	r := m.Row(i)
	return Vec3{r[0], r[1], r[2]}
}

// SetRowVec3 assigns row i from a Vec3; cols must be 3.
func (m *RowMat) SetRowVec3(i int, v Vec3) {
	r := m.Row(i)
	r[0], r[1], r[2] = v.X, v.Y, v.Z
}

// Data returns the flat backing slice (row-major).
func (m *RowMat) Data() []float32 { return m.data }

// CopyFrom copies src into m in place; shapes must match.
func (m *RowMat) CopyFrom(src *RowMat) {
	if m.rows != src.rows || m.cols != src.cols {
		panic("smplxnum: CopyFrom shape mismatch")
	}
	copy(m.data, src.data)
}

// AddInto computes dst = a + b elementwise; all shapes must match.
func AddInto(dst, a, b *RowMat) {
	if a.rows != b.rows || a.cols != b.cols || dst.rows != a.rows || dst.cols != a.cols {
		panic("smplxnum: AddInto shape mismatch")
	}
	for i := range dst.data {
		dst.data[i] = a.data[i] + b.data[i]
	}
}

// ColMat is a dense column-major float32 matrix. Column j occupies
// data[j*rows : j*rows+rows]. This is the layout used for blend_shapes,
// where each basis vector (a column) must be contiguous so the hot-path
// matrix-vector product below adds each scaled column in one linear pass.
type ColMat struct {
	data       []float32
	rows, cols int
}

// NewColMat allocates a zeroed (rows, cols) column-major matrix.
func NewColMat(rows, cols int) *ColMat {
	return &ColMat{data: make([]float32, rows*cols), rows: rows, cols: cols}
}

func (m *ColMat) Rows() int { return m.rows }
func (m *ColMat) Cols() int { return m.cols }

// Col returns the backing slice for column j; mutations through it are
// visible in the matrix.
func (m *ColMat) Col(j int) []float32 {
	return m.data[j*m.rows : (j+1)*m.rows]
}

// At returns element (i, j).
func (m *ColMat) At(i, j int) float32 {
	return m.data[j*m.rows+i]
}

// Set assigns element (i, j).
func (m *ColMat) Set(i, j int, v float32) {
	m.data[j*m.rows+i] = v
}

// SetColSlice overwrites column j from src.
func (m *ColMat) SetColSlice(j int, src []float32) {
	copy(m.Col(j), src)
}

// GEMV computes dst = dst + m[:, :n] * coeffs, where n = len(coeffs) <= m.cols.
// dst must have length m.rows. This is the blend-shape application of
// spec step 3: dst starts as the template vertex positions and accumulates
// the active basis columns scaled by their coefficients.
func (m *ColMat) GEMV(dst []float32, coeffs []float32) {
	n := len(coeffs)
	if n > m.cols {
		panic("smplxnum: GEMV coeffs longer than matrix columns")
	}
	if len(dst) != m.rows {
		panic("smplxnum: GEMV dst length mismatch")
	}
	for j := 0; j < n; j++ {
		c := coeffs[j]
		if c == 0 {
			continue
		}
		col := m.Col(j)
		for i, v := range col {
			dst[i] += v * c
		}
	}
}
