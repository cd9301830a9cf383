package smplx

// Variant identifies which member of the SMPL family a Model/Body pair
// implements. Counts are compile-time-static per spec.md §2 item 3 and
// §9's "runtime-tagged enum ... adequate given the hot path is matrix
// math" dispatch option, looked up from the configs table below rather
// than recomputed.
type Variant int

const (
	SMPL Variant = iota
	SMPLH
	SMPLX
	SMPLXPCA
)

// String returns the variant's display name.
func (v Variant) String() string {
	switch v {
	case SMPL:
		return "SMPL"
	case SMPLH:
		return "SMPL+H"
	case SMPLX:
		return "SMPL-X"
	case SMPLXPCA:
		return "SMPL-X (hand PCA)"
	default:
		return "unknown"
	}
}

// Gender is an informational tag carried by a loaded Model.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderNeutral
	GenderMale
	GenderFemale
)

// String returns the upper-case gender name, matching
// original_source/src/smplx/util.cpp:gender_to_str.
func (g Gender) String() string {
	switch g {
	case GenderNeutral:
		return "NEUTRAL"
	case GenderMale:
		return "MALE"
	case GenderFemale:
		return "FEMALE"
	default:
		return "UNKNOWN"
	}
}

// ParseGender parses a gender name case-insensitively, defaulting to
// GenderUnknown when unrecognized (mirrors util::parse_gender).
func ParseGender(s string) Gender {
	switch upper(s) {
	case "NEUTRAL":
		return GenderNeutral
	case "MALE":
		return GenderMale
	case "FEMALE":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// Config is the static per-variant table of counts, kinematic-tree parent
// array, joint names and default file paths, taken verbatim from
// original_source/include/smplx/model_config.hpp.
type Config struct {
	Variant           Variant
	Name              string
	NVerts            int
	NFaces            int
	NExplicitJoints   int
	NHandPCAJoints    int
	NShapeBlends      int
	NHandPCA          int
	Parent            []int
	JointNames        []string
	DefaultPathPrefix string
	DefaultUVPath     string
}

// NJoints is the total joint count: explicit joints plus both hands' PCA
// joints (0 for non-PCA variants).
func (c Config) NJoints() int { return c.NExplicitJoints + 2*c.NHandPCAJoints }

// NPoseBlends is the pose-blendshape parameter count: 9 (rotation-minus-
// identity entries) per non-root joint.
func (c Config) NPoseBlends() int { return 9 * (c.NJoints() - 1) }

// NBlendShapes is the total blend_shapes column count (shape + pose).
func (c Config) NBlendShapes() int { return c.NShapeBlends + c.NPoseBlends() }

// NParams is the total Body parameter vector length:
// trans(3) + pose(3*NExplicitJoints) + hand_pca(2*NHandPCA) + shape(NShapeBlends).
func (c Config) NParams() int {
	return 3 + 3*c.NExplicitJoints + 2*c.NHandPCA + c.NShapeBlends
}

// NHandParams is 3*NHandPCAJoints, the length of hand_mean_l/r and the row
// count of hand_comps_l/r — 0 for non-PCA-hand variants.
func (c Config) NHandParams() int { return 3 * c.NHandPCAJoints }

// smplxBaseParent is the 55-entry kinematic-tree parent array shared by
// both SMPL-X variants (explicit-hand and hand-PCA): a PCA-variant body
// still has 55 total joints (25 explicit + 2*15 hand-PCA joints), so the
// tree shape is identical; only how those trailing 30 joints' rotations
// are produced (explicit pose vs. PCA-decoded) differs.
var smplxBaseParent = []int{
	0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9,
	9, 12, 13, 14, 16, 17, 18, 19, 15, 15, 15, 20, 25, 26,
	20, 28, 29, 20, 31, 32, 20, 34, 35, 20, 37, 38, 21, 40,
	41, 21, 43, 44, 21, 46, 47, 21, 49, 50, 21, 52, 53,
}

var smplxBaseJointNames = []string{
	"pelvis", "left_hip", "right_hip", "spine1",
	"left_knee", "right_knee", "spine2", "left_ankle",
	"right_ankle", "spine3", "left_foot", "right_foot",
	"neck", "left_collar", "right_collar", "head",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "jaw", "left_eye_smplhf", "right_eye_smplhf",
	"left_index1", "left_index2", "left_index3",
	"left_middle1", "left_middle2", "left_middle3",
	"left_pinky1", "left_pinky2", "left_pinky3",
	"left_ring1", "left_ring2", "left_ring3",
	"left_thumb1", "left_thumb2", "left_thumb3",
	"right_index1", "right_index2", "right_index3",
	"right_middle1", "right_middle2", "right_middle3",
	"right_pinky1", "right_pinky2", "right_pinky3",
	"right_ring1", "right_ring2", "right_ring3",
	"right_thumb1", "right_thumb2", "right_thumb3",
}

var smplHParent = []int{
	0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9, 9, 12, 13, 14,
	16, 17, 18, 19, 20, 22, 23, 20, 25, 26, 20, 28, 29, 20, 31, 32, 20, 34,
	35, 21, 37, 38, 21, 40, 41, 21, 43, 44, 21, 46, 47, 21, 49, 50,
}

var smplHJointNames = []string{
	"pelvis", "left_hip", "right_hip", "spine1",
	"left_knee", "right_knee", "spine2", "left_ankle",
	"right_ankle", "spine3", "left_foot", "right_foot",
	"neck", "left_collar", "right_collar", "head",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_index1", "left_index2",
	"left_index3", "left_middle1", "left_middle2", "left_middle3",
	"left_pinky1", "left_pinky2", "left_pinky3", "left_ring1",
	"left_ring2", "left_ring3", "left_thumb1", "left_thumb2",
	"left_thumb3", "right_index1", "right_index2", "right_index3",
	"right_middle1", "right_middle2", "right_middle3", "right_pinky1",
	"right_pinky2", "right_pinky3", "right_ring1", "right_ring2",
	"right_ring3", "right_thumb1", "right_thumb2", "right_thumb3",
}

var smplParent = []int{0, 0, 0, 0, 1, 2, 3, 4,
	5, 6, 7, 8, 9, 9, 9, 12,
	13, 14, 16, 17, 18, 19, 20, 21}

var smplJointNames = []string{
	"pelvis", "left_hip", "right_hip", "spine1",
	"left_knee", "right_knee", "spine2", "left_ankle",
	"right_ankle", "spine3", "left_foot", "right_foot",
	"neck", "left_collar", "right_collar", "head",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_hand", "right_hand",
}

// configs is the static per-variant table (spec.md §2 item 3): "a static
// table per model variant giving n_verts, n_faces, ..., not computed at
// runtime". Indexed by Variant.
var configs = [4]Config{
	SMPL: {
		Variant: SMPL, Name: "SMPL",
		NVerts: 6890, NFaces: 13776,
		NExplicitJoints: 24, NHandPCAJoints: 0,
		NShapeBlends: 10, NHandPCA: 0,
		Parent: smplParent, JointNames: smplJointNames,
		DefaultPathPrefix: "models/smpl/SMPL_", DefaultUVPath: "models/smpl/uv.txt",
	},
	SMPLH: {
		Variant: SMPLH, Name: "SMPL+H",
		NVerts: 6890, NFaces: 13776,
		NExplicitJoints: 52, NHandPCAJoints: 0,
		NShapeBlends: 16, NHandPCA: 0,
		Parent: smplHParent, JointNames: smplHJointNames,
		DefaultPathPrefix: "models/smplh/SMPLH_", DefaultUVPath: "models/smplh/uv.txt",
	},
	SMPLX: {
		Variant: SMPLX, Name: "SMPL-X",
		NVerts: 10475, NFaces: 20908,
		NExplicitJoints: 55, NHandPCAJoints: 0,
		NShapeBlends: 400, NHandPCA: 0,
		Parent: smplxBaseParent, JointNames: smplxBaseJointNames,
		DefaultPathPrefix: "models/smplx/SMPLX_", DefaultUVPath: "models/smplx/uv.txt",
	},
	SMPLXPCA: {
		Variant: SMPLXPCA, Name: "SMPL-X (hand PCA)",
		NVerts: 10475, NFaces: 20908,
		NExplicitJoints: 25, NHandPCAJoints: 15,
		NShapeBlends: 400, NHandPCA: 6,
		Parent: smplxBaseParent, JointNames: smplxBaseJointNames,
		DefaultPathPrefix: "models/smplx/SMPLX_", DefaultUVPath: "models/smplx/uv.txt",
	},
}

// ConfigFor returns the static configuration table entry for a variant.
func ConfigFor(v Variant) Config { return configs[v] }
