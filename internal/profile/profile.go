// Package profile loads named flag-bundles from a YAML document so a
// tournament or house style can be captured once and reused across runs,
// instead of retyping the same long command line every time.
package profile

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named bundle of flag values, e.g. a "tournament.yml" that
// pins output format, duplicate handling and ECO classification for a
// recurring batch job.
type Profile struct {
	// Name is an optional human label; purely informational.
	Name string `yaml:"name"`

	// Flags maps a registered flag name (without the leading dash) to
	// the string value it should take, using the same textual form
	// flag.Set accepts (so "true"/"false" for bools, decimal for ints).
	Flags map[string]string `yaml:"flags"`
}

// Load reads and parses a profile YAML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return nil, fmt.Errorf("profile: reading %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: parsing %s: %w", path, err)
	}
	return &p, nil
}

// Apply sets each of the profile's flags on fs via flag.Set, so it must
// run before fs.Parse(os.Args[1:]) — flag values set on the actual
// command line always take priority over a profile, since Parse
// re-applies any flag the user actually typed.
func (p *Profile) Apply(fs *flag.FlagSet) error {
	if p == nil {
		return nil
	}
	for name, value := range p.Flags {
		if fs.Lookup(name) == nil {
			return fmt.Errorf("profile: unknown flag %q", name)
		}
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("profile: setting %q=%q: %w", name, value, err)
		}
	}
	return nil
}
