// Package profile provides named density presets for the hide command.
package profile

import (
	"sort"

	"github.com/AnyUserName/lsbsteg/internal/lsb"
)

// Profile bundles the embedding parameters for a trade-off between how much
// a cover is disturbed and how much it can carry.
type Profile struct {
	Name     string
	BPP      int // bits per pixel byte, 1-8
	RLEWidth int // count field bytes, 0 = no RLE
}

// DefaultName is used when no profile is requested or the name is unknown.
const DefaultName = "subtle"

// Built-in profiles.
var profiles = map[string]Profile{
	"subtle": {
		Name: "subtle",
		BPP:  1,
	},
	"balanced": {
		Name: "balanced",
		BPP:  2,
	},
	"dense": {
		Name:     "dense",
		BPP:      4,
		RLEWidth: 2,
	},
	"max": {
		Name:     "max",
		BPP:      8,
		RLEWidth: 2,
	},
}

// Get returns a profile by name. Falls back to subtle if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profiles, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Capacity returns how many payload bytes the profile can place in a
// buffer of pixelBytes bytes.
func (p Profile) Capacity(pixelBytes int) int {
	return lsb.Capacity(pixelBytes, p.BPP)
}
