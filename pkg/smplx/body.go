package smplx

import "github.com/Faultbox/smplxgo/pkg/smplxnum"

// Body binds a Model to a mutable parameter vector and the working buffers
// needed to pose it. All buffers are allocated once at construction (spec.md
// §4.2's memory-ownership note); Update does no allocation on the hot path.
type Body struct {
	Model  *Model
	Params []float32 // len NParams(): [trans(3) | pose(3*Je) | hand_pca_l(P) | hand_pca_r(P) | shape(Bs)]

	JointTransforms []smplxnum.Affine34 // (J,), canonical -> posed
	VertsShaped     *smplxnum.RowMat    // (V,3)
	JointsShaped    *smplxnum.RowMat    // (J,3)
	Joints          *smplxnum.RowMat    // (J,3), posed
	Verts           *smplxnum.RowMat    // (V,3), posed

	fullPose    []float32 // (3J,) scratch
	blendParams []float32 // (Bs+Bp,) scratch

	vertTransforms      []smplxnum.Affine34
	vertTransformsValid bool

	trans, pose, handPCAL, handPCAR, shape []float32 // aliased sub-slices of Params
}

// UpdateOptions controls Update's cost/accuracy tradeoff.
type UpdateOptions struct {
	// EnablePoseBlendshapes selects whether step 3's blend-shape product
	// uses the full [shape | poseblend] basis or only the shape columns.
	// Defaults to true via Update(); interactive callers may pass false
	// to skip the dominant matmul cost (spec.md §4.2's optional skip).
	EnablePoseBlendshapes bool
}

// NewBody allocates a Body bound to model, with all working buffers sized
// from the model's compile-time counts.
func NewBody(model *Model) *Body {
	c := model.Cfg
	j := c.NJoints()

	b := &Body{
		Model:           model,
		Params:          make([]float32, c.NParams()),
		JointTransforms: make([]smplxnum.Affine34, j),
		VertsShaped:     smplxnum.NewRowMat(c.NVerts, 3),
		JointsShaped:    smplxnum.NewRowMat(j, 3),
		Joints:          smplxnum.NewRowMat(j, 3),
		Verts:           smplxnum.NewRowMat(c.NVerts, 3),
		fullPose:        make([]float32, 3*j),
		blendParams:     make([]float32, c.NBlendShapes()),
		vertTransforms:  make([]smplxnum.Affine34, c.NVerts),
	}

	p := 0
	b.trans = b.Params[p : p+3]
	p += 3
	b.pose = b.Params[p : p+3*c.NExplicitJoints]
	p += 3 * c.NExplicitJoints
	b.handPCAL = b.Params[p : p+c.NHandPCA]
	p += c.NHandPCA
	b.handPCAR = b.Params[p : p+c.NHandPCA]
	p += c.NHandPCA
	b.shape = b.Params[p : p+c.NShapeBlends]

	return b
}

// Trans returns the aliased 3-entry root-translation sub-view of Params.
func (b *Body) Trans() []float32 { return b.trans }

// Pose returns the aliased 3*NExplicitJoints sub-view of Params.
func (b *Body) Pose() []float32 { return b.pose }

// HandPCAL returns the aliased left-hand PCA coefficient sub-view (empty for
// non-PCA variants).
func (b *Body) HandPCAL() []float32 { return b.handPCAL }

// HandPCAR returns the aliased right-hand PCA coefficient sub-view (empty
// for non-PCA variants).
func (b *Body) HandPCAR() []float32 { return b.handPCAR }

// Shape returns the aliased NShapeBlends-entry shape-coefficient sub-view.
func (b *Body) Shape() []float32 { return b.shape }

// Update recomputes verts_shaped, joints_shaped, joint_transforms, joints
// and verts from the current Params, with pose blendshapes enabled.
func (b *Body) Update() { b.UpdateWithOptions(UpdateOptions{EnablePoseBlendshapes: true}) }

// UpdateWithOptions implements spec.md §4.2's eight-step forward-skinning
// pass. It performs no allocation.
func (b *Body) UpdateWithOptions(opts UpdateOptions) {
	m := b.Model
	c := m.Cfg
	nJoints := c.NJoints()

	// Step 1: full pose assembly.
	copy(b.fullPose, b.pose)
	if c.NHandPCAJoints > 0 {
		offL := 3 * c.NExplicitJoints
		offR := offL + 3*c.NHandPCAJoints
		fillHandPose(b.fullPose[offL:offR], m.HandMeanL, m.HandCompsL, b.handPCAL)
		fillHandPose(b.fullPose[offR:offR+3*c.NHandPCAJoints], m.HandMeanR, m.HandCompsR, b.handPCAR)
	}

	// Step 2: local rotations and pose-blendshape parameters.
	copy(b.blendParams[:c.NShapeBlends], b.shape)
	for i := 0; i < nJoints; i++ {
		var v [3]float32
		copy(v[:], b.fullPose[3*i:3*i+3])
		r := smplxnum.Rodrigues(v)
		b.JointTransforms[i].SetRotation(r)
		if i >= 1 {
			off := c.NShapeBlends + 9*(i-1)
			b.blendParams[off+0] = r[0] - 1
			b.blendParams[off+1] = r[1]
			b.blendParams[off+2] = r[2]
			b.blendParams[off+3] = r[3]
			b.blendParams[off+4] = r[4] - 1
			b.blendParams[off+5] = r[5]
			b.blendParams[off+6] = r[6]
			b.blendParams[off+7] = r[7]
			b.blendParams[off+8] = r[8] - 1
		}
	}

	// Step 3: blend-shape application.
	b.VertsShaped.CopyFrom(m.Verts)
	if opts.EnablePoseBlendshapes {
		m.BlendShapes.GEMV(b.VertsShaped.Data(), b.blendParams)
	} else {
		m.BlendShapes.GEMV(b.VertsShaped.Data(), b.blendParams[:c.NShapeBlends])
	}

	// Step 4: joint regression.
	m.JointReg.MulDense(b.JointsShaped, b.VertsShaped)

	// Step 5: local-to-global joint transform, kinematic-tree order.
	root := b.JointsShaped.RowVec3(0).Add(smplxnum.Vec3FromSlice(b.trans))
	b.JointTransforms[0].SetTranslation(root)
	b.Joints.SetRowVec3(0, root)
	for i := 1; i < nJoints; i++ {
		p := c.Parent[i]
		local := b.JointsShaped.RowVec3(i).Sub(b.JointsShaped.RowVec3(p))
		b.JointTransforms[i].SetTranslation(local)
		b.JointTransforms[i].ComposeInPlace(b.JointTransforms[p])
		b.Joints.SetRowVec3(i, b.JointTransforms[i].Translation())
	}

	// Step 6: translation normalization.
	for i := 0; i < nJoints; i++ {
		b.JointTransforms[i].NormalizeTranslation(b.JointsShaped.RowVec3(i))
	}

	// Steps 7-8, fused: pose vertices directly without materializing the
	// (V,12) vert_transforms slab (see smplxnum.CSCMatrix.ApplyWeighted).
	b.vertTransformsValid = false
	m.Weights.ApplyWeighted(b.Verts, b.JointTransforms, b.VertsShaped)
}

// fillHandPose writes hand_mean + hand_comps*coeffs into dst.
func fillHandPose(dst []float32, mean []float32, comps *smplxnum.RowMat, coeffs []float32) {
	copy(dst, mean)
	if comps == nil || len(coeffs) == 0 {
		return
	}
	for i := range dst {
		row := comps.Row(i)
		var sum float32
		for k, c := range coeffs {
			sum += row[k] * c
		}
		dst[i] += sum
	}
}

// VertTransforms lazily computes and returns the (V,12) per-vertex affine
// slab weights*joint_transforms, caching it until the next Update
// invalidates it (spec.md §4.2's "vert_transforms (lazy)" output and §9's
// validity-boolean note).
func (b *Body) VertTransforms() []smplxnum.Affine34 {
	if !b.vertTransformsValid {
		b.Model.Weights.MulDenseAffine(b.vertTransforms, b.JointTransforms)
		b.vertTransformsValid = true
	}
	return b.vertTransforms
}
