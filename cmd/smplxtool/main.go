// smplxtool is a CLI utility for loading SMPL-family body models and AMASS
// motion sequences, posing a body, and writing the result to OBJ.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/smplxgo/internal/config"
	"github.com/Faultbox/smplxgo/internal/logger"
	"github.com/Faultbox/smplxgo/pkg/smplx"
)

var cfg *config.Config

func main() {
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "pose":
		cmdPose(args)
	case "seq":
		cmdSeq(args)
	case "bind":
		cmdBind(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`smplxtool - SMPL-family body model utility

Usage:
  smplxtool <command> [options]

Commands:
  info [options] <variant> <gender>                       Show model stats
  pose [options] <variant> <gender>                       Pose a body and optionally write OBJ
  seq <sequence.npz>                                      Show AMASS sequence metadata
  bind [options] <variant> <gender> <sequence.npz> <frame> Bind a sequence frame and write OBJ
  config [--write]                                        Show effective config, optionally save it

Options must come before the positional arguments.

Variants: smpl, smplh, smplx, smplx-pca
Genders:  neutral, male, female

Examples:
  smplxtool info smplx neutral
  smplxtool pose --trans 0,0.1,0 --out template.obj smpl neutral
  smplxtool bind --out frame0.obj smplh neutral sample.npz 0`)
}

func parseVariant(s string) (smplx.Variant, error) {
	switch strings.ToLower(s) {
	case "smpl":
		return smplx.SMPL, nil
	case "smplh", "smpl+h":
		return smplx.SMPLH, nil
	case "smplx", "smpl-x":
		return smplx.SMPLX, nil
	case "smplx-pca", "smplxpca":
		return smplx.SMPLXPCA, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}

func loadModelOrExit(variantArg, genderArg, dataRoot, uvPath string) *smplx.Model {
	variant, err := parseVariant(variantArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	model, err := smplx.LoadModel(smplx.LoaderConfig{
		Variant:  variant,
		Gender:   smplx.ParseGender(genderArg),
		DataRoot: dataRoot,
		UVPath:   uvPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}
	return model
}

// variantGenderArgs resolves the variant/gender positional pair, falling
// back to the loaded config's defaults when omitted.
func variantGenderArgs(fs *flag.FlagSet) (string, string) {
	if fs.NArg() >= 2 {
		return fs.Arg(0), fs.Arg(1)
	}
	return cfg.Data.DefaultVariant, cfg.Data.DefaultGender
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dataRoot := fs.String("data-root", cfg.Data.DataRoot, "SMPL-family data root (default: resolve via SMPLX_DIR/sentinel)")
	fs.Parse(args)

	variantArg, genderArg := variantGenderArgs(fs)
	model := loadModelOrExit(variantArg, genderArg, *dataRoot, "")
	c := model.Cfg
	fmt.Printf("Variant:      %s\n", c.Name)
	fmt.Printf("Gender:       %s\n", model.Gender)
	fmt.Printf("Vertices:     %d\n", c.NVerts)
	fmt.Printf("Faces:        %d\n", c.NFaces)
	fmt.Printf("Joints:       %d\n", c.NJoints())
	fmt.Printf("Shape blends: %d\n", c.NShapeBlends)
	fmt.Printf("Pose blends:  %d\n", c.NPoseBlends())
	fmt.Printf("Hand PCA:     %d\n", c.NHandPCA)
}

func cmdPose(args []string) {
	fs := flag.NewFlagSet("pose", flag.ExitOnError)
	dataRoot := fs.String("data-root", cfg.Data.DataRoot, "SMPL-family data root")
	transArg := fs.String("trans", "", "root translation, x,y,z")
	poseArg := fs.String("pose", "", "comma-separated joint-slot=value overrides, e.g. 15=0.5,16=-0.3")
	out := fs.String("out", "", "OBJ output path (default: none)")
	fs.Parse(args)

	variantArg, genderArg := variantGenderArgs(fs)
	model := loadModelOrExit(variantArg, genderArg, *dataRoot, "")
	body := smplx.NewBody(model)

	if *transArg != "" {
		if err := parseFloat3(*transArg, body.Trans()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: --trans: %v\n", err)
			os.Exit(1)
		}
	}
	if *poseArg != "" {
		if err := applyPoseOverrides(*poseArg, body.Pose()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: --pose: %v\n", err)
			os.Exit(1)
		}
	}

	body.Update()
	root := body.Joints.RowVec3(0)
	fmt.Printf("joints[0] = (%.6f, %.6f, %.6f)\n", root.X, root.Y, root.Z)

	if *out != "" {
		if err := smplx.WriteOBJFile(*out, body.Verts, model.Faces); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing OBJ: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *out)
	}
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	write := fs.Bool("write", false, "save the effective config to the user config directory")
	fs.Parse(args)

	fmt.Printf("data.data_root:       %q\n", cfg.Data.DataRoot)
	fmt.Printf("data.default_variant: %s\n", cfg.Data.DefaultVariant)
	fmt.Printf("data.default_gender:  %s\n", cfg.Data.DefaultGender)
	fmt.Printf("logging.level:        %s\n", cfg.Logging.Level)
	fmt.Printf("logging.log_file:     %q\n", cfg.Logging.LogFile)

	if *write {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", config.ConfigDir())
	}
}

func cmdSeq(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smplxtool seq <sequence.npz>")
		os.Exit(1)
	}

	seq, err := smplx.LoadSequence(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Frames:    %d\n", seq.NFrames)
	fmt.Printf("Gender:    %s\n", seq.Gender)
	fmt.Printf("FrameRate: %.2f\n", seq.FrameRate)
}

func cmdBind(args []string) {
	fs := flag.NewFlagSet("bind", flag.ExitOnError)
	dataRoot := fs.String("data-root", cfg.Data.DataRoot, "SMPL-family data root")
	out := fs.String("out", "", "OBJ output path")
	fs.Parse(args)

	if fs.NArg() < 4 {
		fmt.Fprintln(os.Stderr, "Usage: smplxtool bind [--out file.obj] <variant> <gender> <sequence.npz> <frame>")
		os.Exit(1)
	}

	frame, err := strconv.Atoi(fs.Arg(3))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad frame index %q: %v\n", fs.Arg(3), err)
		os.Exit(1)
	}

	model := loadModelOrExit(fs.Arg(0), fs.Arg(1), *dataRoot, "")
	seq, err := smplx.LoadSequence(fs.Arg(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sequence: %v\n", err)
		os.Exit(1)
	}
	if seq.NFrames == 0 {
		fmt.Fprintln(os.Stderr, "Error: sequence loaded empty (0 frames)")
		os.Exit(1)
	}
	if frame < 0 || frame >= seq.NFrames {
		fmt.Fprintf(os.Stderr, "Error: frame %d out of range [0,%d)\n", frame, seq.NFrames)
		os.Exit(1)
	}

	body := smplx.NewBody(model)
	if err := body.BindFrame(seq, frame); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding frame: %v\n", err)
		os.Exit(1)
	}
	body.Update()

	if *out != "" {
		if err := smplx.WriteOBJFile(*out, body.Verts, model.Faces); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing OBJ: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *out)
	} else {
		root := body.Joints.RowVec3(0)
		fmt.Printf("joints[0] = (%.6f, %.6f, %.6f)\n", root.X, root.Y, root.Z)
	}
}

func parseFloat3(s string, dst []float32) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected 3 comma-separated values, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return err
		}
		dst[i] = float32(v)
	}
	return nil
}

func applyPoseOverrides(s string, pose []float32) error {
	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("bad slot=value pair %q", pair)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil {
			return fmt.Errorf("bad slot index %q: %w", kv[0], err)
		}
		if idx < 0 || idx >= len(pose) {
			return fmt.Errorf("slot index %d out of range [0,%d)", idx, len(pose))
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 32)
		if err != nil {
			return fmt.Errorf("bad value %q: %w", kv[1], err)
		}
		pose[idx] = float32(val)
	}
	return nil
}
