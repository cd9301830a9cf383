package smplx

import (
	"os"

	"github.com/Faultbox/smplxgo/internal/logger"
	"github.com/Faultbox/smplxgo/pkg/npz"
	"github.com/Faultbox/smplxgo/pkg/smplxnum"
)

// AMASS sequence-config constants, from original_source's
// sequence_config::AMASS.
const (
	amassNShapeParams = 16
	amassNBodyJoints  = 22
	amassNHandJoints  = 15
	amassNDMPLs       = 8
)

func amassNPoseParams() int { return (amassNBodyJoints + amassNHandJoints*2) * 3 }

// Sequence is a loaded AMASS motion-capture sequence: per-frame translation
// and pose, overall shape and gender, and optional per-frame DMPL soft
// tissue coefficients. See spec.md §3 and §4.3.
type Sequence struct {
	NFrames   int
	FrameRate float64
	Gender    Gender

	Shape []float32        // (NShapeParams,)
	Trans *smplxnum.RowMat // (NFrames,3)
	Pose  *smplxnum.RowMat // (NFrames,NPoseParams)
	DMPLs *smplxnum.RowMat // (NFrames,NDMPLs), nil if absent
}

// LoadSequence loads an AMASS-format npz sequence per spec.md §4.3. Missing
// required fields (trans, poses, betas) or a missing file produce an empty
// sequence (NFrames == 0) and a logged warning rather than an error — this
// matches original_source's load(), which degrades rather than throwing.
func LoadSequence(path string) (*Sequence, error) {
	ensureLogger()

	if _, err := os.Stat(path); err != nil {
		logger.Sugar.Warnw("smplx: sequence file missing, loaded empty sequence", "path", path)
		return &Sequence{Gender: GenderUnknown}, nil
	}

	arc, err := npz.Open(path)
	if err != nil {
		logger.Sugar.Warnw("smplx: sequence file could not be opened, loaded empty sequence",
			"path", path, "error", err)
		return &Sequence{Gender: GenderUnknown}, nil
	}
	defer arc.Close()

	transArr, errT := arc.Array("trans")
	posesArr, errP := arc.Array("poses")
	betasArr, errB := arc.Array("betas")
	if errT != nil || errP != nil || errB != nil {
		logger.Sugar.Warnw("smplx: sequence missing required field, loaded empty sequence", "path", path)
		return &Sequence{Gender: GenderUnknown}, nil
	}

	if err := transArr.ExpectShape(-1, 3); err != nil {
		return nil, translateShapeErr(err)
	}
	nFrames := transArr.Shape[0]

	transData, err := transArr.FloatsRowMajor()
	if err != nil {
		return nil, translateWidthErr(err)
	}

	if err := posesArr.ExpectShape(nFrames, amassNPoseParams()); err != nil {
		return nil, translateShapeErr(err)
	}
	poseData, err := posesArr.FloatsRowMajor()
	if err != nil {
		return nil, translateWidthErr(err)
	}

	if err := betasArr.ExpectShape(amassNShapeParams); err != nil {
		return nil, translateShapeErr(err)
	}
	shape, err := betasArr.FloatsRowMajor()
	if err != nil {
		return nil, translateWidthErr(err)
	}

	seq := &Sequence{
		NFrames: nFrames,
		Trans:   smplxnum.RowMatFromData(transData, nFrames, 3),
		Pose:    smplxnum.RowMatFromData(poseData, nFrames, amassNPoseParams()),
		Shape:   shape,
	}

	if dmplsArr, err := arc.Array("dmpls"); err == nil {
		if shapeErr := dmplsArr.ExpectShape(nFrames, amassNDMPLs); shapeErr == nil {
			if data, floatErr := dmplsArr.FloatsRowMajor(); floatErr == nil {
				seq.DMPLs = smplxnum.RowMatFromData(data, nFrames, amassNDMPLs)
			}
		}
	}

	if genderArr, err := arc.Array("gender"); err == nil {
		switch genderArr.FirstASCIIByte() {
		case 'f':
			seq.Gender = GenderFemale
		case 'm':
			seq.Gender = GenderMale
		case 'n':
			seq.Gender = GenderNeutral
		default:
			seq.Gender = GenderUnknown
		}
	} else {
		logger.Sugar.Warnw("smplx: sequence gender not present, using neutral", "path", path)
		seq.Gender = GenderNeutral
	}

	if rateArr, err := arc.Array("mocap_framerate"); err == nil {
		if rate, scalarErr := rateArr.Scalar(); scalarErr == nil {
			seq.FrameRate = float64(rate)
		} else {
			seq.FrameRate = 120
		}
	} else {
		logger.Sugar.Warnw("smplx: sequence mocap_framerate not present, assuming 120 FPS", "path", path)
		seq.FrameRate = 120
	}

	logger.Sugar.Infow("smplx: sequence loaded", "path", path, "frames", nFrames, "gender", seq.Gender.String())

	return seq, nil
}
