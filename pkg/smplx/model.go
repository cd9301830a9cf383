package smplx

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/smplxgo/pkg/npz"
	"github.com/Faultbox/smplxgo/pkg/smplxnum"

	"github.com/Faultbox/smplxgo/internal/logger"
)

// FaceMat is a dense row-major (F,3) vertex-index matrix, kept separate
// from smplxnum.RowMat because it holds unsigned indices, not scalars that
// participate in the linear algebra.
type FaceMat struct {
	data []uint32
	rows int
}

// NewFaceMat wraps a flat row-major uint32 slice of length rows*3.
func NewFaceMat(data []uint32, rows int) *FaceMat {
	return &FaceMat{data: data, rows: rows}
}

// Rows returns the face count.
func (f *FaceMat) Rows() int { return f.rows }

// Row returns face i's three vertex indices.
func (f *FaceMat) Row(i int) [3]uint32 {
	return [3]uint32{f.data[i*3], f.data[i*3+1], f.data[i*3+2]}
}

// sentinelPath is the file that marks the resolved SMPL-X data directory,
// per spec.md §6's CLI/environment contract.
const sentinelPath = "data/models/smplx/uv.txt"

// ResolveDataRoot returns the directory prefix under which model files are
// found: it consults $SMPLX_DIR (using it only if the sentinel file exists
// there), else walks up to 3 parent directories from the working directory
// looking for the same sentinel, else returns "" so that a caller's relative
// model path is used as-is (spec.md
// §9: "this removes the hidden singleton" — implemented as a pure function
// rather than original_source's cached process-global).
func ResolveDataRoot() string {
	if env := os.Getenv("SMPLX_DIR"); env != "" {
		dir := env
		if !strings.HasSuffix(dir, "/") && !strings.HasSuffix(dir, "\\") {
			dir += "/"
		}
		if fileExists(dir + sentinelPath) {
			return dir + "data/"
		}
	}
	dir := ""
	const maxLevels = 3
	for i := 0; i <= maxLevels; i++ {
		if fileExists(dir + sentinelPath) {
			return dir + "data/"
		}
		dir += "../"
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoaderConfig parameterizes LoadModel. DataRoot threads a configurable
// data root through the loader instead of the hidden global
// original_source uses (spec.md §9's design note); when empty and Path is
// also empty, ResolveDataRoot supplies the default.
type LoaderConfig struct {
	Variant Variant
	Path    string
	UVPath  string
	Gender  Gender
	DataRoot string
}

// Model is a loaded, immutable (except for SetTemplate/SetDeformations)
// SMPL-family model: template mesh, kinematic skeleton, blend-shape bases,
// joint regressor, skinning weights and optional hand PCA basis. See
// spec.md §3's Model table.
type Model struct {
	Variant Variant
	Cfg     Config
	Gender  Gender

	VertsLoad *smplxnum.RowMat // (V,3), immutable loaded template
	Verts     *smplxnum.RowMat // (V,3), = VertsLoad + deform
	Faces     *FaceMat         // (F,3)

	JointReg *smplxnum.CSRMatrix // (J,V)
	Weights  *smplxnum.CSCMatrix // (V,J)

	BlendShapes *smplxnum.ColMat // (3V, Bs+Bp): shape columns then pose columns

	Parent   []int
	Children [][]int

	HandMeanL, HandMeanR   []float32        // (3*Jh,), only for hand-PCA variants
	HandCompsL, HandCompsR *smplxnum.RowMat // (3*Jh, P), only for hand-PCA variants

	Joints *smplxnum.RowMat // (J,3), template-space joint_reg * verts_load

	UV       *smplxnum.RowMat // (Vuv,2), optional
	UVFaces  [][3]int         // (F,3), 0-based, optional
}

// LoadModel loads a Model from an .npz file per spec.md §4.1.
func LoadModel(cfg LoaderConfig) (*Model, error) {
	ensureLogger()
	c := ConfigFor(cfg.Variant)

	path := cfg.Path
	if path == "" {
		root := cfg.DataRoot
		if root == "" {
			root = ResolveDataRoot()
		}
		path = root + c.DefaultPathPrefix + cfg.Gender.String() + ".npz"
	}

	arc, err := npz.Open(path)
	if err != nil {
		return nil, translateNpzErr(err, path)
	}
	defer arc.Close()

	m := &Model{Variant: cfg.Variant, Cfg: c, Gender: cfg.Gender, Parent: c.Parent}

	if err := m.loadCore(arc); err != nil {
		return nil, err
	}

	if c.NHandPCAJoints > 0 {
		if err := m.loadHandPCA(arc); err != nil {
			return nil, err
		}
	}

	m.Children = childrenFromParent(c.Parent)
	m.Joints = smplxnum.NewRowMat(c.NJoints(), 3)
	m.JointReg.MulDense(m.Joints, m.VertsLoad)

	uvPath := cfg.UVPath
	if uvPath != "" {
		uv, uvFaces, err := ReadUVFile(uvPath, c.NFaces)
		if err != nil {
			return nil, fmt.Errorf("smplx: loading uv file %s: %w", uvPath, err)
		}
		m.UV, m.UVFaces = uv, uvFaces
	}

	logger.Sugar.Infow("smplx: model loaded", "variant", c.Name, "path", path,
		"verts", c.NVerts, "joints", c.NJoints(), "gender", cfg.Gender.String())

	return m, nil
}

func (m *Model) loadCore(arc *npz.Archive) error {
	c := m.Cfg

	vArr, err := requireArray(arc, "v_template")
	if err != nil {
		return err
	}
	if err := vArr.ExpectShape(c.NVerts, 3); err != nil {
		return translateShapeErr(err)
	}
	vData, err := vArr.FloatsRowMajor()
	if err != nil {
		return translateWidthErr(err)
	}
	m.VertsLoad = smplxnum.RowMatFromData(vData, c.NVerts, 3)
	m.Verts = smplxnum.NewRowMat(c.NVerts, 3)
	m.Verts.CopyFrom(m.VertsLoad)

	fArr, err := requireArray(arc, "f")
	if err != nil {
		return err
	}
	if err := fArr.ExpectShape(c.NFaces, 3); err != nil {
		return translateShapeErr(err)
	}
	fData, err := fArr.UintsRowMajor()
	if err != nil {
		return translateWidthErr(err)
	}
	m.Faces = NewFaceMat(fData, c.NFaces)

	jrArr, err := requireArray(arc, "J_regressor")
	if err != nil {
		return err
	}
	if err := jrArr.ExpectShape(c.NJoints(), c.NVerts); err != nil {
		return translateShapeErr(err)
	}
	jrData, err := jrArr.FloatsRowMajor()
	if err != nil {
		return translateWidthErr(err)
	}
	m.JointReg = smplxnum.NewCSRFromDense(c.NJoints(), c.NVerts, func(i, j int) float32 {
		return jrData[i*c.NVerts+j]
	})

	wArr, err := requireArray(arc, "weights")
	if err != nil {
		return err
	}
	if err := wArr.ExpectShape(c.NVerts, c.NJoints()); err != nil {
		return translateShapeErr(err)
	}
	wData, err := wArr.FloatsRowMajor()
	if err != nil {
		return translateWidthErr(err)
	}
	m.Weights = smplxnum.NewCSCFromDense(c.NVerts, c.NJoints(), func(i, j int) float32 {
		return wData[i*c.NJoints()+j]
	})

	sbArr, err := requireArray(arc, "shapedirs")
	if err != nil {
		return err
	}
	if err := sbArr.ExpectShape(c.NVerts, 3, c.NShapeBlends); err != nil {
		return translateShapeErr(err)
	}
	sbData, err := sbArr.FloatsRowMajor() // (V,3,Bs) reshapes to (3V,Bs) row-major
	if err != nil {
		return translateWidthErr(err)
	}

	pbArr, err := requireArray(arc, "posedirs")
	if err != nil {
		return err
	}
	if err := pbArr.ExpectShape(c.NVerts, 3, c.NPoseBlends()); err != nil {
		return translateShapeErr(err)
	}
	pbData, err := pbArr.FloatsRowMajor() // (V,3,Bp) reshapes to (3V,Bp) row-major
	if err != nil {
		return translateWidthErr(err)
	}

	m.BlendShapes = smplxnum.NewColMat(3*c.NVerts, c.NBlendShapes())
	rowMajorIntoColumns(m.BlendShapes, sbData, c.NShapeBlends, 0)
	rowMajorIntoColumns(m.BlendShapes, pbData, c.NPoseBlends(), c.NShapeBlends)

	return nil
}

// rowMajorIntoColumns copies a (rows, nCols) row-major flat buffer into
// dst's columns [colOffset, colOffset+nCols), one destination column at a
// time so each basis vector ends up contiguous (spec.md §9's "keep storage
// column-major" note).
func rowMajorIntoColumns(dst *smplxnum.ColMat, src []float32, nCols, colOffset int) {
	rows := dst.Rows()
	for j := 0; j < nCols; j++ {
		col := dst.Col(colOffset + j)
		for i := 0; i < rows; i++ {
			col[i] = src[i*nCols+j]
		}
	}
}

func (m *Model) loadHandPCA(arc *npz.Archive) error {
	c := m.Cfg
	nHandParams := c.NHandParams()

	hmlArr, err := requireArray(arc, "hands_meanl")
	if err != nil {
		return err
	}
	if err := hmlArr.ExpectShape(nHandParams); err != nil {
		return translateShapeErr(err)
	}
	hml, err := hmlArr.FloatsRowMajor()
	if err != nil {
		return translateWidthErr(err)
	}

	hmrArr, err := requireArray(arc, "hands_meanr")
	if err != nil {
		return err
	}
	if err := hmrArr.ExpectShape(nHandParams); err != nil {
		return translateShapeErr(err)
	}
	hmr, err := hmrArr.FloatsRowMajor()
	if err != nil {
		return translateWidthErr(err)
	}

	hclArr, err := requireArray(arc, "hands_componentsl")
	if err != nil {
		return err
	}
	if err := hclArr.ExpectShape(nHandParams, nHandParams); err != nil {
		return translateShapeErr(err)
	}
	hcl, err := hclArr.FloatsRowMajor()
	if err != nil {
		return translateWidthErr(err)
	}

	hcrArr, err := requireArray(arc, "hands_componentsr")
	if err != nil {
		return err
	}
	if err := hcrArr.ExpectShape(nHandParams, nHandParams); err != nil {
		return translateShapeErr(err)
	}
	hcr, err := hcrArr.FloatsRowMajor()
	if err != nil {
		return translateWidthErr(err)
	}

	m.HandMeanL, m.HandMeanR = hml, hmr

	// original_source keeps only the top n_hand_pca() rows of the on-disk
	// (3Jh,3Jh) components matrix, transposed so columns are PCs; we
	// materialize that directly as a (3Jh, P) row-major matrix.
	m.HandCompsL = topRowsTransposed(hcl, nHandParams, c.NHandPCA)
	m.HandCompsR = topRowsTransposed(hcr, nHandParams, c.NHandPCA)

	return nil
}

// topRowsTransposed extracts the top nRows rows of a (n,n) row-major
// matrix and returns their transpose as an (n, nRows) row-major matrix
// (i.e. the original top rows become columns).
func topRowsTransposed(data []float32, n, nRows int) *smplxnum.RowMat {
	out := smplxnum.NewRowMat(n, nRows)
	for r := 0; r < nRows; r++ {
		for col := 0; col < n; col++ {
			out.Set(col, r, data[r*n+col])
		}
	}
	return out
}

func childrenFromParent(parent []int) [][]int {
	children := make([][]int, len(parent))
	for i := 1; i < len(parent); i++ {
		p := parent[i]
		children[p] = append(children[p], i)
	}
	return children
}

// SetDeformations sets Verts = VertsLoad + d, leaving JointReg/Weights
// untouched (spec.md §4.1). d must be (V,3).
func (m *Model) SetDeformations(d *smplxnum.RowMat) error {
	if d.Rows() != m.Cfg.NVerts || d.Cols() != 3 {
		return fmt.Errorf("%w: set_deformations: expected (%d,3), got (%d,%d)",
			ErrShapeMismatch, m.Cfg.NVerts, d.Rows(), d.Cols())
	}
	smplxnum.AddInto(m.Verts, m.VertsLoad, d)
	return nil
}

// SetTemplate sets Verts = t directly, leaving JointReg/Weights untouched.
func (m *Model) SetTemplate(t *smplxnum.RowMat) error {
	if t.Rows() != m.Cfg.NVerts || t.Cols() != 3 {
		return fmt.Errorf("%w: set_template: expected (%d,3), got (%d,%d)",
			ErrShapeMismatch, m.Cfg.NVerts, t.Rows(), t.Cols())
	}
	m.Verts.CopyFrom(t)
	return nil
}

// ReadUVFile parses the plain-text UV format of spec.md §6: a header
// integer Vuv, then Vuv lines of "u v", then nFaces lines of three
// 1-based UV-vertex indices converted to 0-based on load.
func ReadUVFile(path string, nFaces int) (*smplxnum.RowMat, [][3]int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil // missing UV is allowed
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)

	nUV, ok := nextInt(sc)
	if !ok || nUV <= 0 {
		return nil, nil, nil // empty UV is allowed
	}

	uv := smplxnum.NewRowMat(nUV, 2)
	for i := 0; i < nUV; i++ {
		u, ok1 := nextFloat(sc)
		v, ok2 := nextFloat(sc)
		if !ok1 || !ok2 {
			return nil, nil, fmt.Errorf("smplx: uv file %s: truncated uv coordinates", path)
		}
		uv.Set(i, 0, u)
		uv.Set(i, 1, v)
	}

	faces := make([][3]int, nFaces)
	for i := 0; i < nFaces; i++ {
		a, ok1 := nextInt(sc)
		b, ok2 := nextInt(sc)
		c, ok3 := nextInt(sc)
		if !ok1 || !ok2 || !ok3 {
			return nil, nil, fmt.Errorf("smplx: uv file %s: truncated uv face indices", path)
		}
		faces[i] = [3]int{a - 1, b - 1, c - 1} // 1-based on disk -> 0-based in memory
	}

	return uv, faces, nil
}

// nextToken returns the next whitespace-separated token from a scanner
// already split with bufio.ScanWords, sufficient for the UV file's
// plain-text token stream.
func nextToken(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return sc.Text(), true
}

func nextInt(sc *bufio.Scanner) (int, bool) {
	tok, ok := nextToken(sc)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return v, true
}

func nextFloat(sc *bufio.Scanner) (float32, bool) {
	tok, ok := nextToken(sc)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func requireArray(arc *npz.Archive, name string) (*npz.Array, error) {
	arr, err := arc.Array(name)
	if err != nil {
		if errors.Is(err, npz.ErrMissingField) {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		return nil, err
	}
	return arr, nil
}

func translateNpzErr(err error, path string) error {
	if errors.Is(err, npz.ErrFileNotFound) || os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return err
}

func translateShapeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
}

func translateWidthErr(err error) error {
	return fmt.Errorf("%w: %v", ErrUnsupportedScalarWidth, err)
}
