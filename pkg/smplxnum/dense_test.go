package smplxnum

import "testing"

func TestRowMatRowAccess(t *testing.T) {
	m := NewRowMat(2, 3)
	m.Set(1, 2, 7)
	if got := m.At(1, 2); got != 7 {
		t.Errorf("At(1,2) = %v, want 7", got)
	}
	row := m.Row(1)
	if row[2] != 7 {
		t.Errorf("Row(1)[2] = %v, want 7", row[2])
	}
}

func TestRowMatVec3RoundTrip(t *testing.T) {
	m := NewRowMat(1, 3)
	m.SetRowVec3(0, Vec3{1, 2, 3})
	if got := m.RowVec3(0); got != (Vec3{1, 2, 3}) {
		t.Errorf("RowVec3(0) = %v, want {1 2 3}", got)
	}
}

func TestColMatGEMV(t *testing.T) {
	// 2 rows, 2 cols, col-major: col0 = [1,2], col1 = [10,20]
	m := NewColMat(2, 2)
	m.SetColSlice(0, []float32{1, 2})
	m.SetColSlice(1, []float32{10, 20})

	dst := []float32{0, 0}
	m.GEMV(dst, []float32{1, 1})
	if dst[0] != 11 || dst[1] != 22 {
		t.Errorf("GEMV full = %v, want [11 22]", dst)
	}
}

func TestColMatGEMVPartialColumns(t *testing.T) {
	m := NewColMat(2, 2)
	m.SetColSlice(0, []float32{1, 2})
	m.SetColSlice(1, []float32{100, 200})

	dst := []float32{0, 0}
	m.GEMV(dst, []float32{3})
	if dst[0] != 3 || dst[1] != 6 {
		t.Errorf("GEMV partial = %v, want [3 6]", dst)
	}
}

func TestAddInto(t *testing.T) {
	a := RowMatFromData([]float32{1, 2, 3, 4}, 2, 2)
	b := RowMatFromData([]float32{10, 20, 30, 40}, 2, 2)
	dst := NewRowMat(2, 2)
	AddInto(dst, a, b)
	want := []float32{11, 22, 33, 44}
	for i, v := range dst.Data() {
		if v != want[i] {
			t.Errorf("AddInto()[%d] = %v, want %v", i, v, want[i])
		}
	}
}
