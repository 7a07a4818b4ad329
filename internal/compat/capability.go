package compat

import (
	"fmt"
	"sort"

	"github.com/wfngen-dev/wfngen/internal/config"
)

// DerivedCapabilities computes the capability tags implied by the
// configuration's scalar fields, independent of component selection.
// The result is sorted so validation output is stable.
func DerivedCapabilities(cfg config.Configuration) []string {
	var caps []string

	if cfg.OneIntFile != "" {
		caps = append(caps, "one_electron_integrals")
	}
	if cfg.TwoIntFile != "" {
		caps = append(caps, "two_electron_integrals")
	}
	if len(cfg.ProjSpace) > 0 {
		caps = append(caps, "projection_space")
	}
	if len(cfg.ActiveParams) > 0 {
		caps = append(caps, "has_active_parameters")
	}
	if cfg.Nelec > 0 && cfg.Nelec%2 == 0 {
		caps = append(caps, "even_electron_count")
	}
	for _, order := range cfg.ProjSpace {
		caps = append(caps, fmt.Sprintf("excitation_order_%d", order))
	}

	sort.Strings(caps)
	return caps
}
