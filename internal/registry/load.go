package registry

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"
)

//go:embed catalog.yaml
var catalogYAML []byte

// supportedFormat pins the catalog format versions this build can read.
// Adding components is a patch-level change; renaming catalog fields
// bumps the major version and requires a new build.
const supportedFormat = "^1.0"

type catalogFile struct {
	Format     string                  `yaml:"format"`
	Stages     map[string]templateSpec `yaml:"stages"`
	Components []componentSpec         `yaml:"components"`
}

type templateSpec struct {
	Imports    []string `yaml:"imports"`
	Statements []string `yaml:"statements"`
}

type componentSpec struct {
	Kind          string       `yaml:"kind"`
	Name          string       `yaml:"name"`
	Summary       string       `yaml:"summary"`
	Requires      []string     `yaml:"requires"`
	Provides      []string     `yaml:"provides"`
	TunableGroups []string     `yaml:"tunable_groups"`
	Constraints   []ruleSpec   `yaml:"constraints"`
	Template      templateSpec `yaml:"template"`
}

type ruleSpec struct {
	Rule   string `yaml:"rule"`
	Detail string `yaml:"detail"`
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return load(catalogYAML)
})

// Default returns the embedded catalog, loaded once per process.
func Default() (*Registry, error) {
	return defaultRegistry()
}

func load(raw []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, &CatalogError{Detail: "failed to parse", Err: err}
	}

	if err := checkFormat(file.Format); err != nil {
		return nil, err
	}

	reg := &Registry{
		format:     file.Format,
		components: make(map[Kind]map[string]*ComponentDescriptor, len(Kinds)),
		stages:     make(map[string]ConstructionTemplate, len(file.Stages)),
	}
	for _, kind := range Kinds {
		reg.components[kind] = make(map[string]*ComponentDescriptor)
	}

	for stage, t := range file.Stages {
		reg.stages[stage] = ConstructionTemplate{Imports: t.Imports, Statements: t.Statements}
	}

	for _, spec := range file.Components {
		kind, err := ParseKind(spec.Kind)
		if err != nil {
			return nil, &CatalogError{Detail: fmt.Sprintf("component %q", spec.Name), Err: err}
		}
		if spec.Name == "" {
			return nil, &CatalogError{Detail: fmt.Sprintf("%s component with empty name", kind)}
		}
		if _, exists := reg.components[kind][spec.Name]; exists {
			return nil, &CatalogError{Detail: fmt.Sprintf("duplicate %s: %q", kind, spec.Name)}
		}

		desc := &ComponentDescriptor{
			Kind:                 kind,
			Name:                 spec.Name,
			Summary:              spec.Summary,
			RequiredCapabilities: spec.Requires,
			ProvidedCapabilities: spec.Provides,
			TunableGroups:        spec.TunableGroups,
			Template: ConstructionTemplate{
				Imports:    spec.Template.Imports,
				Statements: spec.Template.Statements,
			},
		}

		// Compile constraint rules once at load so validation never
		// pays compilation cost and malformed rules fail the build,
		// not the user's run.
		for _, rule := range spec.Constraints {
			prog, err := expr.Compile(rule.Rule, expr.Env(ConstraintEnv{}), expr.AsBool())
			if err != nil {
				return nil, &CatalogError{
					Detail: fmt.Sprintf("%s %q constraint %q", kind, spec.Name, rule.Rule),
					Err:    err,
				}
			}
			desc.Constraints = append(desc.Constraints, Constraint{
				Source:  rule.Rule,
				Detail:  rule.Detail,
				Program: prog,
			})
		}

		reg.components[kind][spec.Name] = desc
	}

	return reg, nil
}

func checkFormat(version string) error {
	if version == "" {
		return &CatalogError{Detail: "missing format version"}
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return &CatalogError{Detail: fmt.Sprintf("invalid format version %q", version), Err: err}
	}
	constraint, err := semver.NewConstraint(supportedFormat)
	if err != nil {
		return &CatalogError{Detail: "invalid format constraint", Err: err}
	}
	if !constraint.Check(v) {
		return &CatalogError{
			Detail: fmt.Sprintf("format version %s is outside the supported range %s", version, supportedFormat),
		}
	}
	return nil
}
