package smplx

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// buildNpyFloats and writeNpz below build synthetic .npz fixtures in-memory,
// mirroring pkg/npz's own test fixtures (no real SMPL/AMASS file is
// redistributable), so LoadModel/LoadSequence can be exercised without any
// external data.

var npyMagic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

func npyHeader(descr string, fortran bool, shape []int) string {
	shapeStr := "("
	for i, s := range shape {
		if i > 0 {
			shapeStr += ", "
		}
		shapeStr += itoaTest(s)
	}
	if len(shape) == 1 {
		shapeStr += ","
	}
	shapeStr += ")"
	fortStr := "False"
	if fortran {
		fortStr = "True"
	}
	header := "{'descr': '" + descr + "', 'fortran_order': " + fortStr + ", 'shape': " + shapeStr + ", }"
	total := 10 + len(header) + 1
	pad := (64 - total%64) % 64
	for i := 0; i < pad; i++ {
		header += " "
	}
	return header + "\n"
}

func itoaTest(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func buildNpyFloats(t *testing.T, shape []int, data []float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := npyHeader("<f4", false, shape)
	buf.Write(npyMagic)
	buf.WriteByte(1)
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, v := range data {
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(v))
	}
	return buf.Bytes()
}

func buildNpyUints(t *testing.T, shape []int, data []uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := npyHeader("<u4", false, shape)
	buf.Write(npyMagic)
	buf.WriteByte(1)
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, v := range data {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

// buildNpyByteString encodes a single-character byte-string scalar array
// (used for AMASS's 'gender' field, on disk as a 0-d '|S1').
func buildNpyByteString(t *testing.T, ch byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := npyHeader("|S1", false, nil)
	buf.Write(npyMagic)
	buf.WriteByte(1)
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	buf.WriteByte(ch)
	return buf.Bytes()
}

func writeNpz(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.npz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}
