package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wfngen-dev/wfngen/internal/assemble"
	"github.com/wfngen-dev/wfngen/internal/compat"
	"github.com/wfngen-dev/wfngen/internal/config"
	"github.com/wfngen-dev/wfngen/internal/emit"
	"github.com/wfngen-dev/wfngen/internal/registry"
)

// ManifestFilename is written into the output directory after a run.
const ManifestFilename = "sweep_manifest.yaml"

// PointStatus classifies the outcome of one sweep point.
type PointStatus string

const (
	StatusGenerated PointStatus = "generated"
	StatusInvalid   PointStatus = "invalid"
	StatusError     PointStatus = "error"
)

// PointResult records what happened to one point. Invalid points carry
// every collected validation problem.
type PointResult struct {
	Filename string      `yaml:"filename"`
	Status   PointStatus `yaml:"status"`
	Problems []string    `yaml:"problems,omitempty"`
}

// Manifest summarizes a sweep run. The run id ties log lines and the
// manifest together; generated scripts themselves stay free of run
// identifiers so they remain byte-reproducible.
type Manifest struct {
	RunID     string        `yaml:"run_id"`
	OutputDir string        `yaml:"output_dir"`
	Points    []PointResult `yaml:"points"`
}

// Runner generates every point of a sweep. The registry is shared
// read-only across the concurrent generations; each point otherwise
// touches only its own state.
type Runner struct {
	Registry *registry.Registry
	Defaults config.Defaults
}

// Run expands the sweep and generates all points concurrently. Every
// point is attempted even when some fail, so one run reports every
// problem in the grid; the returned error is non-nil if any point did
// not generate.
func (r *Runner) Run(ctx context.Context, file *File) (*Manifest, error) {
	base := file.Base
	base.ApplyDefaults(r.Defaults)
	file.Base = base

	points, err := file.Expand()
	if err != nil {
		return nil, err
	}

	outputDir := file.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := &Manifest{
		RunID:     uuid.NewString(),
		OutputDir: outputDir,
		Points:    make([]PointResult, len(points)),
	}

	// LoadReader defaults this, but a directly constructed File may
	// leave it zero, and errgroup treats SetLimit(0) as "no goroutines
	// at all".
	parallelism := file.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	slog.Info("starting sweep", "run_id", manifest.RunID, "points", len(points), "parallelism", parallelism)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, point := range points {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				manifest.Points[point.Index] = PointResult{
					Filename: point.Filename,
					Status:   StatusError,
					Problems: []string{err.Error()},
				}
				return nil
			}
			// Results are index-assigned, so manifest order is the
			// expansion order regardless of completion order, and
			// failures never abort sibling points.
			manifest.Points[point.Index] = r.generate(point, outputDir)
			return nil
		})
	}
	_ = g.Wait()

	if err := writeManifest(manifest, outputDir); err != nil {
		return manifest, err
	}

	failed := 0
	for _, res := range manifest.Points {
		if res.Status != StatusGenerated {
			failed++
		}
	}
	slog.Info("sweep finished", "run_id", manifest.RunID, "generated", len(points)-failed, "failed", failed)

	if failed > 0 {
		return manifest, fmt.Errorf("sweep: %d of %d points failed", failed, len(points))
	}
	return manifest, nil
}

func (r *Runner) generate(point Point, outputDir string) PointResult {
	result := PointResult{Filename: point.Filename}

	resolved, err := config.Resolve(r.Registry, point.Config)
	if err != nil {
		result.Status = StatusInvalid
		result.Problems = []string{err.Error()}
		return result
	}

	report := compat.Validate(resolved)
	if !report.Valid() {
		result.Status = StatusInvalid
		result.Problems = report.Messages()
		return result
	}

	plan, err := assemble.Assemble(r.Registry, resolved)
	if err != nil {
		result.Status = StatusError
		result.Problems = []string{err.Error()}
		return result
	}

	if err := emit.Emit(plan, filepath.Join(outputDir, point.Filename)); err != nil {
		result.Status = StatusError
		result.Problems = []string{err.Error()}
		return result
	}

	result.Status = StatusGenerated
	return result
}

func writeManifest(manifest *Manifest, outputDir string) error {
	raw, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal sweep manifest: %w", err)
	}
	path := filepath.Join(outputDir, ManifestFilename)
	if err := emit.WriteFileAtomic(path, raw); err != nil {
		return fmt.Errorf("failed to write sweep manifest: %w", err)
	}
	return nil
}
