// smplxbench repeatedly calls Body.Update() on one loaded model and reports
// timing statistics (mean, p50, p99, min, max). It measures time only; it
// does not count allocations.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/Faultbox/smplxgo/internal/config"
	"github.com/Faultbox/smplxgo/internal/logger"
	"github.com/Faultbox/smplxgo/pkg/smplx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	variantFlag := flag.String("variant", cfg.Data.DefaultVariant, "smpl, smplh, smplx or smplx-pca")
	genderFlag := flag.String("gender", cfg.Data.DefaultGender, "neutral, male or female")
	dataRoot := flag.String("data-root", cfg.Data.DataRoot, "SMPL-family data root")
	iterations := flag.Int("n", 1000, "number of Update() calls to time")
	warmup := flag.Int("warmup", 50, "number of untimed warmup calls")
	randomizePose := flag.Bool("randomize", true, "perturb pose params each iteration")
	flag.Parse()

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	variant, err := parseVariant(*variantFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	model, err := smplx.LoadModel(smplx.LoaderConfig{
		Variant:  variant,
		Gender:   smplx.ParseGender(*genderFlag),
		DataRoot: *dataRoot,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	body := smplx.NewBody(model)
	pose := body.Pose()

	step := func(i int) {
		if *randomizePose {
			for j := range pose {
				pose[j] = float32(math.Sin(float64(i*len(pose)+j))) * 0.1
			}
		}
		body.Update()
	}

	for i := 0; i < *warmup; i++ {
		step(i)
	}

	samples := make([]time.Duration, *iterations)
	start := time.Now()
	for i := 0; i < *iterations; i++ {
		t0 := time.Now()
		step(i)
		samples[i] = time.Since(t0)
	}
	total := time.Since(start)

	report(model, *iterations, total, samples)
}

func report(model *smplx.Model, n int, total time.Duration, samples []time.Duration) {
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, s := range samples {
		sum += s
	}
	mean := sum / time.Duration(n)
	p50 := sorted[n/2]
	p99 := sorted[n*99/100]

	fmt.Printf("Variant:    %s (%s)\n", model.Cfg.Name, model.Gender)
	fmt.Printf("Vertices:   %d\n", model.Cfg.NVerts)
	fmt.Printf("Joints:     %d\n", model.Cfg.NJoints())
	fmt.Printf("Iterations: %d\n", n)
	fmt.Printf("Total:      %s\n", total)
	fmt.Printf("Mean:       %s\n", mean)
	fmt.Printf("p50:        %s\n", p50)
	fmt.Printf("p99:        %s\n", p99)
	fmt.Printf("Min:        %s\n", sorted[0])
	fmt.Printf("Max:        %s\n", sorted[n-1])
}

func parseVariant(s string) (smplx.Variant, error) {
	switch s {
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
