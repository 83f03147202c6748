// Package data holds the static angling catalog: species, tackle and
// fishing spots. The stock catalog is embedded; deployments may load their
// own file with the same layout.
package data

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Lookup errors. Returned errors wrap one of these and list suggestions.
var (
	ErrUnknownSpecies  = errors.New("unknown species")
	ErrUnknownGear     = errors.New("unknown gear")
	ErrUnknownLocation = errors.New("unknown location")
	ErrUnknownBait     = errors.New("unknown bait")
)

const maxSuggestions = 3

// SpeciesTemplate is a catalog fish.
type SpeciesTemplate struct {
	Name        string  `yaml:"name"`
	MinWeightKg float64 `yaml:"min_weight_kg"`
	MaxWeightKg float64 `yaml:"max_weight_kg"`
	Aggression  float64 `yaml:"aggression"`
	Burstiness  float64 `yaml:"burstiness"`
	Endurance   float64 `yaml:"endurance"`
	Agility     float64 `yaml:"agility"`
}

// RodTemplate is a catalog rod.
type RodTemplate struct {
	Name       string  `yaml:"name"`
	CapacityKg float64 `yaml:"capacity_kg"`
}

// LineTemplate is a catalog line.
type LineTemplate struct {
	Name       string  `yaml:"name"`
	CapacityKg float64 `yaml:"capacity_kg"`
}

// ReelTemplate is a catalog reel.
type ReelTemplate struct {
	Name      string  `yaml:"name"`
	PullBoost float64 `yaml:"pull_boost"`
}

// HookTemplate is a catalog hook.
type HookTemplate struct {
	Name    string  `yaml:"name"`
	Control float64 `yaml:"control"`
}

// BaitTemplate is a catalog bait.
type BaitTemplate struct {
	Name string `yaml:"name"`
}

// LocationTemplate is a fishing spot.
type LocationTemplate struct {
	Name       string  `yaml:"name"`
	DepthM     float64 `yaml:"depth_m"`
	Current    float64 `yaml:"current"`
	Waves      float64 `yaml:"waves"`
	Vegetation float64 `yaml:"vegetation"`
}

type catalogFile struct {
	Species   []SpeciesTemplate  `yaml:"species"`
	Rods      []RodTemplate      `yaml:"rods"`
	Lines     []LineTemplate     `yaml:"lines"`
	Reels     []ReelTemplate     `yaml:"reels"`
	Hooks     []HookTemplate     `yaml:"hooks"`
	Baits     []BaitTemplate     `yaml:"baits"`
	Locations []LocationTemplate `yaml:"locations"`
}

// Catalog indexes templates by normalized name. It is read-only after load
// and safe for concurrent use.
type Catalog struct {
	species   map[string]SpeciesTemplate
	rods      map[string]RodTemplate
	lines     map[string]LineTemplate
	reels     map[string]ReelTemplate
	hooks     map[string]HookTemplate
	baits     map[string]BaitTemplate
	locations map[string]LocationTemplate
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document. Duplicate names are rejected.
func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{}
	var err error
	if c.species, err = index("species", f.Species, func(s SpeciesTemplate) string { return s.Name }); err != nil {
		return nil, err
	}
	if c.rods, err = index("rod", f.Rods, func(r RodTemplate) string { return r.Name }); err != nil {
		return nil, err
	}
	if c.lines, err = index("line", f.Lines, func(l LineTemplate) string { return l.Name }); err != nil {
		return nil, err
	}
	if c.reels, err = index("reel", f.Reels, func(r ReelTemplate) string { return r.Name }); err != nil {
		return nil, err
	}
	if c.hooks, err = index("hook", f.Hooks, func(h HookTemplate) string { return h.Name }); err != nil {
		return nil, err
	}
	if c.baits, err = index("bait", f.Baits, func(b BaitTemplate) string { return b.Name }); err != nil {
		return nil, err
	}
	if c.locations, err = index("location", f.Locations, func(l LocationTemplate) string { return l.Name }); err != nil {
		return nil, err
	}

	for _, s := range c.species {
		if s.MinWeightKg <= 0 || s.MaxWeightKg < s.MinWeightKg {
			return nil, fmt.Errorf("species %q: bad weight range [%v, %v]", s.Name, s.MinWeightKg, s.MaxWeightKg)
		}
	}
	return c, nil
}

// Species returns the species template by name.
func (c *Catalog) Species(name string) (SpeciesTemplate, error) {
	return lookup(c.species, name, ErrUnknownSpecies)
}

// Rod returns the rod template by name.
func (c *Catalog) Rod(name string) (RodTemplate, error) {
	return lookup(c.rods, name, ErrUnknownGear)
}

// Line returns the line template by name.
func (c *Catalog) Line(name string) (LineTemplate, error) {
	return lookup(c.lines, name, ErrUnknownGear)
}

// Reel returns the reel template by name.
func (c *Catalog) Reel(name string) (ReelTemplate, error) {
	return lookup(c.reels, name, ErrUnknownGear)
}

// Hook returns the hook template by name.
func (c *Catalog) Hook(name string) (HookTemplate, error) {
	return lookup(c.hooks, name, ErrUnknownGear)
}

// Bait returns the bait template by name.
func (c *Catalog) Bait(name string) (BaitTemplate, error) {
	return lookup(c.baits, name, ErrUnknownBait)
}

// Location returns the fishing spot by name.
func (c *Catalog) Location(name string) (LocationTemplate, error) {
	return lookup(c.locations, name, ErrUnknownLocation)
}

// SpeciesNames returns all species names sorted.
func (c *Catalog) SpeciesNames() []string { return sortedKeys(c.species) }

// LocationNames returns all location names sorted.
func (c *Catalog) LocationNames() []string { return sortedKeys(c.locations) }

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func index[T any](kind string, items []T, name func(T) string) (map[string]T, error) {
	m := make(map[string]T, len(items))
	for _, it := range items {
		key := normalize(name(it))
		if key == "" {
			return nil, fmt.Errorf("%s with empty name", kind)
		}
		if _, dup := m[key]; dup {
			return nil, fmt.Errorf("duplicate %s %q", kind, key)
		}
		m[key] = it
	}
	return m, nil
}

func lookup[T any](m map[string]T, name string, notFound error) (T, error) {
	key := normalize(name)
	if v, ok := m[key]; ok {
		return v, nil
	}
	var zero T
	if s := suggest(key, sortedKeys(m)); len(s) > 0 {
		return zero, fmt.Errorf("%w %q (did you mean %s?)", notFound, name, strings.Join(s, ", "))
	}
	return zero, fmt.Errorf("%w %q", notFound, name)
}

// suggest ranks candidates within a length-scaled edit distance of token.
func suggest(token string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}
	var hits []scored
	for _, cand := range candidates {
		if strings.HasPrefix(cand, token) && len(token) >= 2 {
			hits = append(hits, scored{cand, 0})
			continue
		}
		dist := levenshtein.ComputeDistance(token, cand)
		if dist <= distanceLimit(len(cand)) {
			hits = append(hits, scored{cand, dist})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]string, 0, maxSuggestions)
	for _, h := range hits {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, h.name)
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
