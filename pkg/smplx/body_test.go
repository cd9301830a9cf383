package smplx

import (
	"math"
	"testing"

	"github.com/Faultbox/smplxgo/pkg/smplxnum"
)

// newToyModel builds a minimal 2-vertex, 3-joint chain (0 -> 1 -> 2) along
// the x-axis, with vertex 0 rigidly attached to joint 0 and vertex 1 rigidly
// attached to the leaf joint 2. Blend shapes are all zero so verts_shaped is
// always exactly the template, letting the expected posed output be worked
// out by hand for the scenarios in spec.md §8.
func newToyModel() *Model {
	cfg := Config{
		Variant:         SMPL,
		Name:            "toy",
		NVerts:          2,
		NFaces:          1,
		NExplicitJoints: 3,
		NHandPCAJoints:  0,
		NShapeBlends:    1,
		NHandPCA:        0,
		Parent:          []int{0, 0, 1},
	}

	// Template joints (via regressor below): j0=(0,0,0), j1=(1,0,0), j2=(2,0,0).
	verts := smplxnum.RowMatFromData([]float32{
		0, 0, 0,
		1, 0, 0,
	}, 2, 3)

	jointReg := [][]float32{
		{1, 0},
		{0, 1},
		{-1, 2},
	}
	jr := smplxnum.NewCSRFromDense(3, 2, func(i, j int) float32 { return jointReg[i][j] })

	weights := [][]float32{
		{1, 0, 0},
		{0, 0, 1},
	}
	w := smplxnum.NewCSCFromDense(2, 3, func(i, j int) float32 { return weights[i][j] })

	blend := smplxnum.NewColMat(3*2, cfg.NBlendShapes())

	return &Model{
		Variant:     SMPL,
		Cfg:         cfg,
		Parent:      cfg.Parent,
		VertsLoad:   verts,
		Verts:       verts,
		JointReg:    jr,
		Weights:     w,
		BlendShapes: blend,
	}
}

func vec3Close(a, b smplxnum.Vec3, eps float32) bool {
	return abs32(a.X-b.X) < eps && abs32(a.Y-b.Y) < eps && abs32(a.Z-b.Z) < eps
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestBodyUpdateZeroParamsMatchesTemplate(t *testing.T) {
	m := newToyModel()
	b := NewBody(m)
	b.Update()

	for i := 0; i < m.Cfg.NVerts; i++ {
		if !vec3Close(b.Verts.RowVec3(i), m.Verts.RowVec3(i), 1e-5) {
			t.Errorf("vert %d = %v, want template %v", i, b.Verts.RowVec3(i), m.Verts.RowVec3(i))
		}
	}
}

func TestBodyUpdateTranslationOnly(t *testing.T) {
	m := newToyModel()
	b := NewBody(m)
	copy(b.Trans(), []float32{1, 2, 3})
	b.Update()

	want := smplxnum.Vec3{X: 1, Y: 2, Z: 3}
	for i := 0; i < m.Cfg.NVerts; i++ {
		delta := b.Verts.RowVec3(i).Sub(m.Verts.RowVec3(i))
		if !vec3Close(delta, want, 1e-5) {
			t.Errorf("vert %d delta = %v, want %v", i, delta, want)
		}
	}
}

func TestBodyUpdateSingleJointRotation(t *testing.T) {
	m := newToyModel()
	b := NewBody(m)
	// Rotate joint 1 by pi/2 about the z-axis.
	pose := b.Pose()
	pose[3*1+2] = float32(math.Pi / 2)
	b.Update()

	if !vec3Close(b.Joints.RowVec3(0), smplxnum.Vec3{}, 1e-5) {
		t.Errorf("joints[0] = %v, want origin (root unaffected)", b.Joints.RowVec3(0))
	}
	if !vec3Close(b.Joints.RowVec3(1), smplxnum.Vec3{X: 1}, 1e-5) {
		t.Errorf("joints[1] = %v, want (1,0,0) (own-rotation origin absorbed)", b.Joints.RowVec3(1))
	}
	moved := b.Joints.RowVec3(2).Sub(smplxnum.Vec3{X: 2})
	if moved.Length() < 0.5 {
		t.Errorf("joints[2] barely moved: delta length %v", moved.Length())
	}
}

// TestBodyUpdateSingleJointRotationRealSMPLXTree exercises spec.md §8
// scenario C against the real SMPL-X kinematic tree (ConfigFor(SMPLX)'s
// Parent array and joint indices) rather than the synthetic toy chain,
// per spec.md:204's literal right-knee (5) / right-ankle (8) example.
// Verts, joint regressor and skinning weights are synthetic (one vertex
// per joint, identity-mapped) since only joint positions are checked.
func TestBodyUpdateSingleJointRotationRealSMPLXTree(t *testing.T) {
	cfg := ConfigFor(SMPLX)
	nJoints := cfg.NJoints()
	cfg.NVerts = nJoints

	identity := func(i, j int) float32 {
		if i == j {
			return 1
		}
		return 0
	}

	newBody := func() *Body {
		verts := smplxnum.NewRowMat(nJoints, 3)
		for i := 0; i < nJoints; i++ {
			verts.SetRowVec3(i, smplxnum.Vec3{X: float32(i)})
		}
		m := &Model{
			Variant:     SMPLX,
			Cfg:         cfg,
			Parent:      cfg.Parent,
			VertsLoad:   verts,
			Verts:       verts,
			JointReg:    smplxnum.NewCSRFromDense(nJoints, nJoints, identity),
			Weights:     smplxnum.NewCSCFromDense(nJoints, nJoints, identity),
			BlendShapes: smplxnum.NewColMat(3*nJoints, cfg.NBlendShapes()),
		}
		return NewBody(m)
	}

	tests := []struct {
		name    string
		rotated int
		moved   int
	}{
		{"right_knee_moves_right_ankle", 5, 8},
		{"left_knee_moves_left_ankle", 4, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBody()
			pose := b.Pose()
			pose[3*tt.rotated+2] = float32(math.Pi / 2)
			b.Update()

			want := smplxnum.Vec3{X: float32(tt.rotated)}
			if !vec3Close(b.Joints.RowVec3(tt.rotated), want, 1e-4) {
				t.Errorf("joints[%d] = %v, want %v (own-rotation origin absorbed)", tt.rotated, b.Joints.RowVec3(tt.rotated), want)
			}

			moved := b.Joints.RowVec3(tt.moved).Sub(smplxnum.Vec3{X: float32(tt.moved)})
			if moved.Length() < 0.5 {
				t.Errorf("joints[%d] barely moved: delta length %v", tt.moved, moved.Length())
			}
		})
	}
}

// TestBodyUpdateHandPCAExpansionLocalizedToHandVertices exercises spec.md
// §8 scenario D: setting a single SMPL-X-PCA hand-PCA coefficient expands
// (via fillHandPose) into the pose of the underlying hand joints, and the
// resulting vertex displacement is localized to that hand's vertex subset
// rather than the whole body. As in TestBodyUpdateSingleJointRotationRealSMPLXTree,
// the model is a synthetic one-vertex-per-joint body built directly against
// the real SMPL-X-PCA Config (NHandPCAJoints/NHandPCA left at their real
// values) rather than a loaded .npz, so only the joint layout is real.
func TestBodyUpdateHandPCAExpansionLocalizedToHandVertices(t *testing.T) {
	cfg := ConfigFor(SMPLXPCA)
	nJoints := cfg.NJoints() // 25 explicit + 2*15 hand-PCA = 55
	cfg.NVerts = nJoints
	cfg.NShapeBlends = 0

	identity := func(i, j int) float32 {
		if i == j {
			return 1
		}
		return 0
	}

	verts := smplxnum.NewRowMat(nJoints, 3)
	for i := 0; i < nJoints; i++ {
		verts.SetRowVec3(i, smplxnum.Vec3{X: float32(i)})
	}

	// hand_comps_l is (NHandParams, NHandPCA) = (45, 6); coefficient 0
	// drives a pi/2 z-rotation of the first left-hand joint (global joint
	// index 25, "left_index1" — dst index 2 within its own 3-entry pose
	// slot, per fillHandPose's dst[3*handJoint : 3*handJoint+3] layout).
	handComps := smplxnum.NewRowMat(cfg.NHandParams(), cfg.NHandPCA)
	handComps.Set(2, 0, float32(math.Pi/2))

	m := &Model{
		Variant:     SMPLXPCA,
		Cfg:         cfg,
		Parent:      cfg.Parent,
		VertsLoad:   verts,
		Verts:       verts,
		JointReg:    smplxnum.NewCSRFromDense(nJoints, nJoints, identity),
		Weights:     smplxnum.NewCSCFromDense(nJoints, nJoints, identity),
		BlendShapes: smplxnum.NewColMat(3*nJoints, cfg.NBlendShapes()),
		HandMeanL:   make([]float32, cfg.NHandParams()),
		HandMeanR:   make([]float32, cfg.NHandParams()),
		HandCompsL:  handComps,
		HandCompsR:  smplxnum.NewRowMat(cfg.NHandParams(), cfg.NHandPCA),
	}

	b := NewBody(m)
	b.HandPCAL()[0] = 1
	b.Update()

	const (
		leftIndex1 = 25 // first left-hand-PCA joint, rotated
		leftIndex2 = 26 // its child, expected to move
		rightKnee  = 5  // unrelated body joint, expected untouched
	)

	template := func(i int) smplxnum.Vec3 { return smplxnum.Vec3{X: float32(i)} }

	if !vec3Close(b.Verts.RowVec3(leftIndex1), template(leftIndex1), 1e-4) {
		t.Errorf("hand-rotated joint's own vertex = %v, want template %v (own-rotation origin absorbed)",
			b.Verts.RowVec3(leftIndex1), template(leftIndex1))
	}

	moved := b.Verts.RowVec3(leftIndex2).Sub(template(leftIndex2))
	if moved.Length() < 1e-3 {
		t.Errorf("descendant hand vertex %d barely moved: delta length %v", leftIndex2, moved.Length())
	}

	unrelated := b.Verts.RowVec3(rightKnee).Sub(template(rightKnee))
	if unrelated.Length() > 1e-4 {
		t.Errorf("unrelated body vertex %d moved by %v, want it unaffected by the hand-PCA coefficient",
			rightKnee, unrelated.Length())
	}
}

func TestBodyUpdateIdempotent(t *testing.T) {
	m := newToyModel()
	b := NewBody(m)
	pose := b.Pose()
	pose[3*1+2] = 0.3
	copy(b.Trans(), []float32{0.5, -0.2, 0.1})

	b.Update()
	first := append([]float32(nil), b.Verts.Data()...)
	b.Update()
	second := b.Verts.Data()

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Update() not idempotent at index %d: %v != %v", i, first[i], second[i])
		}
	}
}

func TestBodyUpdateDisablePoseBlendshapesExactWhenPoseZero(t *testing.T) {
	m := newToyModel()
	b := NewBody(m)
	b.UpdateWithOptions(UpdateOptions{EnablePoseBlendshapes: true})
	withBlend := append([]float32(nil), b.Verts.Data()...)

	b.UpdateWithOptions(UpdateOptions{EnablePoseBlendshapes: false})
	withoutBlend := b.Verts.Data()

	for i := range withBlend {
		if withBlend[i] != withoutBlend[i] {
			t.Errorf("index %d: with-blend %v != without-blend %v at zero pose", i, withBlend[i], withoutBlend[i])
		}
	}
}

func TestBodyVertTransformsLazyAndInvalidatedByUpdate(t *testing.T) {
	m := newToyModel()
	b := NewBody(m)
	b.Update()

	vt := b.VertTransforms()
	if len(vt) != m.Cfg.NVerts {
		t.Fatalf("VertTransforms() length = %d, want %d", len(vt), m.Cfg.NVerts)
	}
	// Vertex 0 is fully weighted to joint 0, which stays identity here.
	if got := vt[0].Translation(); !vec3Close(got, smplxnum.Vec3{}, 1e-5) {
		t.Errorf("vert_transforms[0].Translation() = %v, want origin", got)
	}

	copy(b.Trans(), []float32{1, 0, 0})
	b.Update()
	vt2 := b.VertTransforms()
	if got := vt2[0].Translation(); !vec3Close(got, smplxnum.Vec3{X: 1}, 1e-5) {
		t.Errorf("vert_transforms[0].Translation() after re-update = %v, want (1,0,0)", got)
	}
}
