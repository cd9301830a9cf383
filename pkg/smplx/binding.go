package smplx

import "fmt"

// SetShape copies the sequence's overall shape coefficients into b's shape
// parameters, per variant, mirroring original_source's
// SequenceModelSpec<..>::set_shape specializations.
func (b *Body) SetShape(seq *Sequence) error {
	switch b.Model.Variant {
	case SMPL:
		copy(b.Shape(), seq.Shape[:b.Model.Cfg.NShapeBlends])
	case SMPLH:
		copy(b.Shape(), seq.Shape)
	case SMPLX:
		// Shape spaces are incompatible; SMPL-X shape is left untouched.
	case SMPLXPCA:
		return fmt.Errorf("%w: SetShape: %s", ErrUnsupportedVariantBinding, b.Model.Variant)
	}
	return nil
}

// SetPose copies frame's trans/pose entries into b's parameters, per
// variant, mirroring original_source's SequenceModelSpec<..>::set_pose
// specializations.
func (b *Body) SetPose(seq *Sequence, frame int) error {
	switch b.Model.Variant {
	case SMPL:
		copy(b.Trans(), seq.Trans.Row(frame))
		nCommon := amassNBodyJoints * 3
		pose := b.Pose()
		copy(pose[:nCommon], seq.Pose.Row(frame)[:nCommon])
		for i := nCommon; i < len(pose); i++ {
			pose[i] = 0
		}
	case SMPLH:
		copy(b.Trans(), seq.Trans.Row(frame))
		copy(b.Pose(), seq.Pose.Row(frame))
	case SMPLX:
		copy(b.Trans(), seq.Trans.Row(frame))
		nBodyCommon := amassNBodyJoints * 3
		nHandCommon := amassNHandJoints * 2 * 3
		framePose := seq.Pose.Row(frame)
		pose := b.Pose()
		copy(pose[:nBodyCommon], framePose[:nBodyCommon])
		copy(pose[len(pose)-nHandCommon:], framePose[len(framePose)-nHandCommon:])
		for i := nBodyCommon; i < len(pose)-nHandCommon; i++ {
			pose[i] = 0
		}
	case SMPLXPCA:
		return fmt.Errorf("%w: SetPose: %s", ErrUnsupportedVariantBinding, b.Model.Variant)
	}
	return nil
}

// BindFrame binds a sequence's shape (once) and frame-th pose into b,
// without calling Update — the caller updates explicitly (spec.md §3's
// "readers call update first" rule).
func (b *Body) BindFrame(seq *Sequence, frame int) error {
	if err := b.SetShape(seq); err != nil {
		return err
	}
	return b.SetPose(seq, frame)
}
