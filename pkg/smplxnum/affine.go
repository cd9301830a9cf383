package smplxnum

// Affine34 is a 3x4 row-major affine transform: the left 3x3 block is a
// rotation (or general linear part), the right 3x1 column is a translation.
// The implicit bottom row is [0 0 0 1] and is never stored (spec: "affine
// multiplication with bottom row omitted").
//
// Layout: [r00 r01 r02 tx | r10 r11 r12 ty | r20 r21 r22 tz], flattened
// row-major into 12 float32s, matching the (J,12)/(V,12) slab layout used
// for joint_transforms and vert_transforms.
type Affine34 [12]float32

// IdentityAffine34 returns the identity transform.
func IdentityAffine34() Affine34 {
	return Affine34{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	}
}

// Rotation returns the left 3x3 block, row-major.
func (a Affine34) Rotation() [9]float32 {
	return [9]float32{a[0], a[1], a[2], a[4], a[5], a[6], a[8], a[9], a[10]}
}

// SetRotation overwrites the left 3x3 block from a row-major 3x3 matrix.
func (a *Affine34) SetRotation(r [9]float32) {
	a[0], a[1], a[2] = r[0], r[1], r[2]
	a[4], a[5], a[6] = r[3], r[4], r[5]
	a[8], a[9], a[10] = r[6], r[7], r[8]
}

// Translation returns the right 3x1 column.
func (a Affine34) Translation() Vec3 {
	return Vec3{a[3], a[7], a[11]}
}

// SetTranslation overwrites the right 3x1 column.
func (a *Affine34) SetTranslation(t Vec3) {
	a[3], a[7], a[11] = t.X, t.Y, t.Z
}

// MulVec3 returns r*v for the rotation block r of a.
func (a Affine34) MulVec3(v Vec3) Vec3 {
	return Vec3{
		a[0]*v.X + a[1]*v.Y + a[2]*v.Z,
		a[4]*v.X + a[5]*v.Y + a[6]*v.Z,
		a[8]*v.X + a[9]*v.Y + a[10]*v.Z,
	}
}

// Apply applies the full affine transform to v: rotation*v + translation.
// This implements spec §4.2 step 8 for a single vertex.
func (a Affine34) Apply(v Vec3) Vec3 {
	return a.MulVec3(v).Add(a.Translation())
}

// ComposeInPlace overwrites a with parent . a, i.e. a's rotation becomes
// parent.Rotation() * a.Rotation() and a's translation becomes
// parent.Rotation()*a.Translation() + parent.Translation(). This implements
// spec §4.2 step 5's "T_i <- T_parent . T_i" in place, matching
// original_source's util::mul_affine. The caller must read parent before
// any call that would overwrite parent's own row.
func (a *Affine34) ComposeInPlace(parent Affine34) {
	// New translation first (needs a's old translation).
	newTrans := parent.MulVec3(a.Translation()).Add(parent.Translation())

	pr := parent.Rotation()
	ar := a.Rotation()
	var nr [9]float32
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float32
			for k := 0; k < 3; k++ {
				sum += pr[row*3+k] * ar[k*3+col]
			}
			nr[row*3+col] = sum
		}
	}
	a.SetRotation(nr)
	a.SetTranslation(newTrans)
}

// NormalizeTranslation re-expresses the transform so it maps the canonical
// (unposed) vertex directly to posed space, absorbing the joint-relative
// origin: translation -= rotation * origin. This implements spec §4.2
// step 6 and must run after all tree composition is complete.
func (a *Affine34) NormalizeTranslation(origin Vec3) {
	a.SetTranslation(a.Translation().Sub(a.MulVec3(origin)))
}
