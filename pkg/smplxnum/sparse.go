package smplxnum

import "fmt"

// CSRMatrix is a row-compressed sparse float32 matrix, used for the joint
// regressor (shape (J, V)): the hot-path multiplication is "for each joint
// row, sum over its nonzero vertex columns", which CSR answers directly.
type CSRMatrix struct {
	rows, cols int
	indptr     []int     // length rows+1
	indices    []int     // length nnz, column index per entry
	data       []float32 // length nnz
}

// NewCSRFromDense builds a CSRMatrix from a dense row-major source,
// pruning exact-zero entries (spec: "any entries equal to zero are
// pruned"). get(i, j) reads the dense source at (i, j).
func NewCSRFromDense(rows, cols int, get func(i, j int) float32) *CSRMatrix {
	indptr := make([]int, rows+1)
	var indices []int
	var data []float32
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := get(i, j); v != 0 {
				indices = append(indices, j)
				data = append(data, v)
			}
		}
		indptr[i+1] = len(indices)
	}
	return &CSRMatrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}
}

func (m *CSRMatrix) Rows() int { return m.rows }
func (m *CSRMatrix) Cols() int { return m.cols }

// MulDense computes dst = m * x where x is (cols, width) row-major dense
// and dst is (rows, width) row-major dense, both pre-allocated by the
// caller. This implements spec §4.2 step 4's joint_reg * verts_shaped.
func (m *CSRMatrix) MulDense(dst, x *RowMat) {
	if x.rows != m.cols {
		panic(fmt.Sprintf("smplxnum: CSRMatrix.MulDense x rows %d != cols %d", x.rows, m.cols))
	}
	if dst.rows != m.rows || dst.cols != x.cols {
		panic("smplxnum: CSRMatrix.MulDense dst shape mismatch")
	}
	width := x.cols
	for i := 0; i < m.rows; i++ {
		out := dst.Row(i)
		for k := range out {
			out[k] = 0
		}
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			j, a := m.indices[p], m.data[p]
			row := x.Row(j)
			for k := 0; k < width; k++ {
				out[k] += a * row[k]
			}
		}
	}
}

// RowSum returns the sum of row i's nonzero entries (used to validate the
// partition-of-unity invariant on skinning weights when laid out as CSR,
// and for test assertions against the loaded joint regressor).
func (m *CSRMatrix) RowSum(i int) float32 {
	var sum float32
	for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
		sum += m.data[p]
	}
	return sum
}

// CSCMatrix is a column-compressed sparse float32 matrix, used for the LBS
// weights (shape (V, J)): the hot-path multiplication is "for each vertex
// row, sum over its nonzero joint columns", and weights are naturally
// sparse-by-column since each vertex only has a handful of influencing
// joints — CSC lets MulDenseAffine accumulate straight into per-vertex
// affine slabs without a dense (V,J) intermediate.
type CSCMatrix struct {
	rows, cols int
	indptr     []int     // length cols+1
	indices    []int     // length nnz, row index per entry
	data       []float32 // length nnz
}

// NewCSCFromDense builds a CSCMatrix from a dense row-major source,
// pruning exact-zero entries.
func NewCSCFromDense(rows, cols int, get func(i, j int) float32) *CSCMatrix {
	indptr := make([]int, cols+1)
	var indices []int
	var data []float32
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if v := get(i, j); v != 0 {
				indices = append(indices, i)
				data = append(data, v)
			}
		}
		indptr[j+1] = len(indices)
	}
	return &CSCMatrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}
}

func (m *CSCMatrix) Rows() int { return m.rows }
func (m *CSCMatrix) Cols() int { return m.cols }

// RowSums returns, for every row, the sum of its nonzero entries across all
// columns — used to check the "weights rows sum to 1" invariant (spec §3,
// §8 property 1/9), which is naturally expensive to compute from CSC
// (column-major) storage, so it is provided once here rather than inline
// at every call site.
func (m *CSCMatrix) RowSums() []float32 {
	sums := make([]float32, m.rows)
	for j := 0; j < m.cols; j++ {
		for p := m.indptr[j]; p < m.indptr[j+1]; p++ {
			sums[m.indices[p]] += m.data[p]
		}
	}
	return sums
}

// MulDenseAffine computes dst[i] = sum_j m[i,j] * joints[j] for every
// vertex row i, where joints and dst are Affine34 slabs (12-wide rows) and
// the product is taken componentwise over all 12 affine components. This
// implements spec §4.2 step 7's weights * joint_transforms directly into
// the (V,12) vert_transforms layout, walking the sparse matrix by column
// (the natural order for CSC) and scatter-adding into each affected vertex.
func (m *CSCMatrix) MulDenseAffine(dst []Affine34, joints []Affine34) {
	if len(joints) != m.cols {
		panic("smplxnum: CSCMatrix.MulDenseAffine joints length mismatch")
	}
	if len(dst) != m.rows {
		panic("smplxnum: CSCMatrix.MulDenseAffine dst length mismatch")
	}
	for i := range dst {
		dst[i] = Affine34{}
	}
	for j := 0; j < m.cols; j++ {
		jt := joints[j]
		for p := m.indptr[j]; p < m.indptr[j+1]; p++ {
			i, w := m.indices[p], m.data[p]
			out := &dst[i]
			for k := 0; k < 12; k++ {
				out[k] += w * jt[k]
			}
		}
	}
}

// ApplyWeighted computes dst[i] = sum_j m[i,j] * joints[j].Apply(shaped[i])
// directly into the (V,3) output, without ever materializing the (V,12)
// per-vertex affine slab that MulDenseAffine builds. This is the fast path
// spec §4.2 steps 7-8 use every Update(): since affine application
// distributes over the weighted sum (a weighted sum of applied affines
// equals the weighted-affine applied once), the posed vertex position can
// be scatter-accumulated straight from the sparse weights without an
// intermediate — the (V,12) buffer is only built lazily, on demand, by a
// caller that actually reads per-vertex transforms (see Body.VertTransforms).
func (m *CSCMatrix) ApplyWeighted(dst *RowMat, joints []Affine34, shaped *RowMat) {
	if len(joints) != m.cols {
		panic("smplxnum: CSCMatrix.ApplyWeighted joints length mismatch")
	}
	if dst.Rows() != m.rows || shaped.Rows() != m.rows {
		panic("smplxnum: CSCMatrix.ApplyWeighted shape mismatch")
	}
	for i := 0; i < dst.Rows(); i++ {
		row := dst.Row(i)
		row[0], row[1], row[2] = 0, 0, 0
	}
	for j := 0; j < m.cols; j++ {
		jt := joints[j]
		for p := m.indptr[j]; p < m.indptr[j+1]; p++ {
			i, w := m.indices[p], m.data[p]
			posed := jt.Apply(shaped.RowVec3(i))
			out := dst.Row(i)
			out[0] += w * posed.X
			out[1] += w * posed.Y
			out[2] += w * posed.Z
		}
	}
}
