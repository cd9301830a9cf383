package smplx

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/smplxgo/pkg/smplxnum"
)

// WriteOBJ emits verts and faces as Wavefront OBJ per spec.md §4.4:
// one-based indices, fixed 6-digit-precision floats, a single smoothing
// group, no materials/normals/UVs.
func WriteOBJ(w io.Writer, verts *smplxnum.RowMat, faces *FaceMat) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("o smplx\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	for i := 0; i < verts.Rows(); i++ {
		v := verts.RowVec3(i)
		if _, err := fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	if _, err := bw.WriteString("s 1\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	for i := 0; i < faces.Rows(); i++ {
		f := faces.Row(i)
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// WriteOBJFile writes verts/faces to a file at path, per WriteOBJ.
func WriteOBJFile(path string, verts *smplxnum.RowMat, faces *FaceMat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()
	return WriteOBJ(f, verts, faces)
}

// ReadOBJ parses a WriteOBJ-produced OBJ file back into a (V,3) vertex
// matrix and (F,3) face matrix, used by the OBJ round-trip test
// (spec.md §8 scenario E). It tolerates trailing whitespace but assumes
// exactly the "v x y z" / "f a b c" line shapes WriteOBJ emits.
func ReadOBJ(r io.Reader) (*smplxnum.RowMat, *FaceMat, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var vertData []float32
	var faceData []uint32

	for sc.Scan() {
		line := sc.Text()
		if len(line) < 2 {
			continue
		}
		switch line[0] {
		case 'v':
			if line[1] != ' ' {
				continue
			}
			var x, y, z float64
			if _, err := fmt.Sscanf(line, "v %f %f %f", &x, &y, &z); err != nil {
				return nil, nil, fmt.Errorf("smplx: obj: bad vertex line %q: %w", line, err)
			}
			vertData = append(vertData, float32(x), float32(y), float32(z))
		case 'f':
			if line[1] != ' ' {
				continue
			}
			var a, b, c int
			if _, err := fmt.Sscanf(line, "f %d %d %d", &a, &b, &c); err != nil {
				return nil, nil, fmt.Errorf("smplx: obj: bad face line %q: %w", line, err)
			}
			faceData = append(faceData, uint32(a-1), uint32(b-1), uint32(c-1))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	verts := smplxnum.RowMatFromData(vertData, len(vertData)/3, 3)
	faces := NewFaceMat(faceData, len(faceData)/3)
	return verts, faces, nil
}
