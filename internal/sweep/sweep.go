// Package sweep expands one base configuration into a batch of
// calculation scripts, one per point of a declared parameter grid.
package sweep

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/wfngen-dev/wfngen/internal/config"
)

// DefaultFilenamePattern names generated scripts when the sweep file
// does not declare its own pattern. Index keeps names unique even when
// two points differ only in a field the pattern omits.
const DefaultFilenamePattern = "{{ .WfnType }}_{{ .Solver }}_{{ .Index }}.py"

const defaultParallelism = 4

// File is the on-disk sweep declaration: a base configuration plus
// axes, each axis a list of values for one configuration field. The
// cross product of all axes defines the sweep points.
type File struct {
	Base            config.Configuration `yaml:"base"`
	Axes            map[string][]any     `yaml:"axes"`
	OutputDir       string               `yaml:"output_dir"`
	FilenamePattern string               `yaml:"filename_pattern"`
	Parallelism     int                  `yaml:"parallelism"`
}

// Point is one expanded configuration with its destination filename.
type Point struct {
	Index    int
	Filename string
	Config   config.Configuration
}

// Load reads a sweep file, rejecting unknown fields.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sweep file: %w", err)
	}
	defer f.Close()

	file, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// LoadReader reads a sweep declaration from an io.Reader.
func LoadReader(r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep file: %w", err)
	}

	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if file.FilenamePattern == "" {
		file.FilenamePattern = DefaultFilenamePattern
	}
	if file.Parallelism <= 0 {
		file.Parallelism = defaultParallelism
	}
	return &file, nil
}

// Expand computes the sweep points. Axis names are walked in sorted
// order and values in declared order, so the expansion is deterministic
// for a given file.
func (f *File) Expand() ([]Point, error) {
	names := make([]string, 0, len(f.Axes))
	for name := range f.Axes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if len(f.Axes[name]) == 0 {
			return nil, fmt.Errorf("axis %q has no values", name)
		}
	}

	nameTmpl, err := template.New("filename").Option("missingkey=error").Parse(f.FilenamePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filename_pattern: %w", err)
	}

	configs := []config.Configuration{f.Base}
	for _, name := range names {
		var next []config.Configuration
		for _, cfg := range configs {
			for _, value := range f.Axes[name] {
				applied := cfg
				// Slices must not be shared between points.
				applied.ProjSpace = append([]int(nil), cfg.ProjSpace...)
				applied.ActiveParams = append([]string(nil), cfg.ActiveParams...)
				if err := applyAxis(&applied, name, value); err != nil {
					return nil, err
				}
				next = append(next, applied)
			}
		}
		configs = next
	}

	points := make([]Point, len(configs))
	for i, cfg := range configs {
		filename, err := renderFilename(nameTmpl, i, cfg)
		if err != nil {
			return nil, err
		}
		points[i] = Point{Index: i, Filename: filename, Config: cfg}
	}

	seen := make(map[string]int, len(points))
	for _, p := range points {
		if prev, dup := seen[p.Filename]; dup {
			return nil, fmt.Errorf("filename_pattern maps points %d and %d to the same file %q",
				prev, p.Index, p.Filename)
		}
		seen[p.Filename] = p.Index
	}

	return points, nil
}

// applyAxis sets one configuration field from an axis value. Axis names
// match the CLI flags.
func applyAxis(cfg *config.Configuration, name string, value any) error {
	badType := func() error {
		return fmt.Errorf("axis %q: unsupported value %v (%T)", name, value, value)
	}

	switch name {
	case "nelec", "nspin":
		n, ok := value.(int)
		if !ok {
			return badType()
		}
		if name == "nelec" {
			cfg.Nelec = n
		} else {
			cfg.Nspin = n
		}
	case "wfn_type", "ham_type", "objective", "solver", "one_int_file", "two_int_file":
		s, ok := value.(string)
		if !ok {
			return badType()
		}
		switch name {
		case "wfn_type":
			cfg.WfnType = s
		case "ham_type":
			cfg.HamType = s
		case "objective":
			cfg.Objective = s
		case "solver":
			cfg.Solver = s
		case "one_int_file":
			cfg.OneIntFile = s
		case "two_int_file":
			cfg.TwoIntFile = s
		}
	case "proj_space":
		raw, ok := value.([]any)
		if !ok {
			return badType()
		}
		orders := make([]int, len(raw))
		for i, v := range raw {
			n, ok := v.(int)
			if !ok {
				return badType()
			}
			orders[i] = n
		}
		cfg.ProjSpace = orders
	default:
		return fmt.Errorf("axis %q does not name a sweepable configuration field", name)
	}
	return nil
}

type filenameEnv struct {
	Index     int
	Nelec     int
	Nspin     int
	WfnType   string
	HamType   string
	Objective string
	Solver    string
}

func renderFilename(tmpl *template.Template, index int, cfg config.Configuration) (string, error) {
	var sb strings.Builder
	err := tmpl.Execute(&sb, filenameEnv{
		Index:     index,
		Nelec:     cfg.Nelec,
		Nspin:     cfg.Nspin,
		WfnType:   cfg.WfnType,
		HamType:   cfg.HamType,
		Objective: cfg.Objective,
		Solver:    cfg.Solver,
	})
	if err != nil {
		return "", fmt.Errorf("filename_pattern: %w", err)
	}
	return sb.String(), nil
}
