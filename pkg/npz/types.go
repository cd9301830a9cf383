// Package npz reads NPZ archives — zip files of named NPY arrays — the
// on-disk format used by the SMPL-family model files and AMASS motion
// sequences.
package npz

import (
	"errors"
	"fmt"
)

// Sentinel failure kinds. Callers wrap these with fmt.Errorf("...: %w", ...)
// for context; use errors.Is to classify.
var (
	ErrFileNotFound           = errors.New("npz: file not found")
	ErrMissingField           = errors.New("npz: required array missing")
	ErrShapeMismatch          = errors.New("npz: shape mismatch")
	ErrUnsupportedScalarWidth = errors.New("npz: unsupported scalar width")
)

// DType describes an NPY element type as parsed from the header's 'descr'
// field, e.g. "<f4" (little-endian float32) or "<U6" (6-codepoint unicode
// string).
type DType struct {
	Descr string
	Kind  byte // 'f' float, 'i' signed int, 'u' unsigned int, 'U' unicode, 'S' byte string
	Width int  // element size in bytes (4 * char count for 'U')
}

// IsFloat reports whether the dtype is a floating-point numeric type.
func (d DType) IsFloat() bool { return d.Kind == 'f' }

// IsInt reports whether the dtype is a signed or unsigned integer type.
func (d DType) IsInt() bool { return d.Kind == 'i' || d.Kind == 'u' }

// Array is a decoded NPY payload: its element type, shape, memory order and
// raw bytes. Numeric accessors cast on demand into the engine's scalar
// types, honoring both byte width and fortran vs. C order.
type Array struct {
	Name         string
	DType        DType
	Shape        []int
	FortranOrder bool
	Raw          []byte
}

// Len returns the total element count (product of Shape; 1 for a 0-d
// scalar array).
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// ExpectShape validates a's shape against the given dimensions. A -1 entry
// matches any size in that position (the ANY_SHAPE wildcard from
// original_source's assert_shape).
func (a *Array) ExpectShape(shape ...int) error {
	if len(a.Shape) != len(shape) {
		return fmt.Errorf("%w: %s: expected %d dims, got %d %v",
			ErrShapeMismatch, a.Name, len(shape), len(a.Shape), a.Shape)
	}
	for i, want := range shape {
		if want == -1 {
			continue
		}
		if a.Shape[i] != want {
			return fmt.Errorf("%w: %s: dim %d: expected %d, got %d",
				ErrShapeMismatch, a.Name, i, want, a.Shape[i])
		}
	}
	return nil
}

// rowMajorStrides returns the strides of shape under C (row-major) order.
func rowMajorStrides(shape []int) []int {
	n := len(shape)
	strides := make([]int, n)
	stride := 1
	for i := n - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

// colMajorStrides returns the strides of shape under Fortran (column-major)
// order.
func colMajorStrides(shape []int) []int {
	n := len(shape)
	strides := make([]int, n)
	stride := 1
	for i := 0; i < n; i++ {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

// FloatsRowMajor decodes a into a flattened, row-major (C-order) float32
// slice, casting from the array's actual width (4 or 8 bytes) and undoing
// fortran_order if set. This is the one general-purpose numeric decode the
// model loader needs: v_template/J_regressor/weights/shapedirs/posedirs are
// all consumed as flat row-major buffers (see pkg/smplx/model.go — a
// (V,3,B) fortran/C-order tensor reshapes trivially into a (3V,B) row-major
// matrix once decoded this way).
func (a *Array) FloatsRowMajor() ([]float32, error) {
	if !a.DType.IsFloat() {
		return nil, fmt.Errorf("npz: %s: not a float array (dtype %s)", a.Name, a.DType.Descr)
	}
	if a.DType.Width != 4 && a.DType.Width != 8 {
		return nil, fmt.Errorf("%w: %s: width %d", ErrUnsupportedScalarWidth, a.Name, a.DType.Width)
	}
	total := a.Len()
	out := make([]float32, total)
	cStrides := rowMajorStrides(a.Shape)
	srcStrides := cStrides
	if a.FortranOrder {
		srcStrides = colMajorStrides(a.Shape)
	}
	ndim := len(a.Shape)
	idx := make([]int, ndim)
	for i := 0; i < total; i++ {
		rem := i
		for d := 0; d < ndim; d++ {
			idx[d] = rem / cStrides[d]
			rem %= cStrides[d]
		}
		off := 0
		for d := 0; d < ndim; d++ {
			off += idx[d] * srcStrides[d]
		}
		out[i] = a.readFloat(off)
	}
	return out, nil
}

// UintsRowMajor decodes a into a flattened, row-major uint32 slice from an
// integer-typed array (signed or unsigned, 4 or 8 bytes wide) — used for
// the face index array.
func (a *Array) UintsRowMajor() ([]uint32, error) {
	if !a.DType.IsInt() {
		return nil, fmt.Errorf("npz: %s: not an integer array (dtype %s)", a.Name, a.DType.Descr)
	}
	if a.DType.Width != 4 && a.DType.Width != 8 {
		return nil, fmt.Errorf("%w: %s: width %d", ErrUnsupportedScalarWidth, a.Name, a.DType.Width)
	}
	total := a.Len()
	out := make([]uint32, total)
	cStrides := rowMajorStrides(a.Shape)
	srcStrides := cStrides
	if a.FortranOrder {
		srcStrides = colMajorStrides(a.Shape)
	}
	ndim := len(a.Shape)
	idx := make([]int, ndim)
	for i := 0; i < total; i++ {
		rem := i
		for d := 0; d < ndim; d++ {
			idx[d] = rem / cStrides[d]
			rem %= cStrides[d]
		}
		off := 0
		for d := 0; d < ndim; d++ {
			off += idx[d] * srcStrides[d]
		}
		out[i] = uint32(a.readUint(off))
	}
	return out, nil
}

func (a *Array) readFloat(elemOff int) float32 {
	b := a.Raw[elemOff*a.DType.Width:]
	switch a.DType.Width {
	case 4:
		return decodeFloat32(b)
	case 8:
		return float32(decodeFloat64(b))
	}
	return 0
}

func (a *Array) readUint(elemOff int) uint64 {
	b := a.Raw[elemOff*a.DType.Width:]
	switch a.DType.Width {
	case 4:
		return uint64(decodeUint32(b))
	case 8:
		return decodeUint64(b)
	}
	return 0
}

// FirstASCIIByte returns the first raw byte of the array's payload, or 0
// if empty. AMASS's 'gender' field is a 0-d unicode or byte-string array;
// for an ASCII value the first byte of the first code unit equals the
// character code regardless of whether it's stored as 1-byte 'S' or
// 4-byte little-endian 'U', so this is sufficient without a full string
// decoder (mirrors original_source's `data_holder[0]` read).
func (a *Array) FirstASCIIByte() byte {
	if len(a.Raw) == 0 {
		return 0
	}
	return a.Raw[0]
}

// Scalar decodes a as a single float32/float64 scalar (0-d or 1-element
// array), used for mocap_framerate.
func (a *Array) Scalar() (float32, error) {
	vals, err := a.FloatsRowMajor()
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("npz: %s: empty scalar array", a.Name)
	}
	return vals[0], nil
}
