package world

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jwebster45206/gossip-village/pkg/state"
	"gopkg.in/yaml.v3"
)

//go:embed layout.yaml
var defaultLayoutYAML []byte

// Coord is an [x, y] pair as written in layout files.
type Coord [2]int

func (c Coord) Position() state.Position {
	return state.Position{X: c[0], Y: c[1]}
}

// Anchor pins roles matching any keyword to a fixed cell.
type Anchor struct {
	Keywords []string `yaml:"keywords"`
	At       Coord    `yaml:"at"`
}

// Rename gives a cell a new name when a resident's role matches.
type Rename struct {
	Keywords []string `yaml:"keywords"`
	Name     string   `yaml:"name"`
}

// Seed is the starting affinity/trust of a relationship edge.
type Seed struct {
	Affinity int `yaml:"affinity"`
	Trust    int `yaml:"trust"`
}

// Layout describes the village map and the placement tables.
type Layout struct {
	Grid        [][]string                      `yaml:"grid"`
	Zones       map[state.Zone][]Coord          `yaml:"zones"`
	Anchors     []Anchor                        `yaml:"anchors"`
	Renames     []Rename                        `yaml:"renames"`
	Seeds       map[state.RelationshipType]Seed `yaml:"seeds"`
	DefaultSeed Seed                            `yaml:"default_seed"`
}

// DefaultLayout returns the built-in Rice Fragrance Village layout.
func DefaultLayout() *Layout {
	l, err := ParseLayout(defaultLayoutYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded layout is invalid: %v", err))
	}
	return l
}

// LoadLayout reads a layout file. An empty path yields the default layout.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks grid dimensions and that every coordinate is on the grid.
func (l *Layout) Validate() error {
	var errs []string
	if len(l.Grid) != state.GridSize {
		errs = append(errs, fmt.Sprintf("grid must have %d rows, got %d", state.GridSize, len(l.Grid)))
	}
	for y, row := range l.Grid {
		if len(row) != state.GridSize {
			errs = append(errs, fmt.Sprintf("grid row %d must have %d cells, got %d", y, state.GridSize, len(row)))
		}
	}
	for zone, coords := range l.Zones {
		if len(coords) == 0 {
			errs = append(errs, fmt.Sprintf("zone %s has no cells", zone))
		}
		for _, c := range coords {
			if !c.Position().InBounds() {
				errs = append(errs, fmt.Sprintf("zone %s cell %v is off the grid", zone, c))
			}
		}
	}
	for i, a := range l.Anchors {
		if len(a.Keywords) == 0 {
			errs = append(errs, fmt.Sprintf("anchor %d has no keywords", i))
		}
		if !a.At.Position().InBounds() {
			errs = append(errs, fmt.Sprintf("anchor %d cell %v is off the grid", i, a.At))
		}
	}
	for i, r := range l.Renames {
		if len(r.Keywords) == 0 || r.Name == "" {
			errs = append(errs, fmt.Sprintf("rename %d needs keywords and a name", i))
		}
	}
	for t := range l.Seeds {
		if !t.IsValid() {
			errs = append(errs, fmt.Sprintf("seed for unknown relationship type %q", t))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid layout:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// BaseGrid copies the layout grid into a GridMap.
func (l *Layout) BaseGrid() state.GridMap {
	var g state.GridMap
	for y := 0; y < state.GridSize && y < len(l.Grid); y++ {
		for x := 0; x < state.GridSize && x < len(l.Grid[y]); x++ {
			g[y][x] = l.Grid[y][x]
		}
	}
	return g
}

// SeedFor returns the starting affinity/trust for an initial connection.
func (l *Layout) SeedFor(t state.RelationshipType) Seed {
	if s, ok := l.Seeds[t]; ok {
		return s
	}
	return l.DefaultSeed
}

// anchorFor returns the canonical cell for a role, if any.
func (l *Layout) anchorFor(role string) (state.Position, bool) {
	for _, a := range l.Anchors {
		if containsAny(role, a.Keywords) {
			return a.At.Position(), true
		}
	}
	return state.Position{}, false
}

// cellNameFor returns the new name a resident gives its cell.
func (l *Layout) cellNameFor(npc *state.NPC) (string, bool) {
	for _, r := range l.Renames {
		if containsAny(npc.Role, r.Keywords) {
			return strings.ReplaceAll(r.Name, "{surname}", surname(npc.Name)), true
		}
	}
	return "", false
}

func (l *Layout) zoneCells(z state.Zone) []state.Position {
	coords := l.Zones[z]
	if len(coords) == 0 {
		all := make([]state.Position, 0, state.GridSize*state.GridSize)
		for y := 0; y < state.GridSize; y++ {
			for x := 0; x < state.GridSize; x++ {
				all = append(all, state.Position{X: x, Y: y})
			}
		}
		return all
	}
	out := make([]state.Position, len(coords))
	for i, c := range coords {
		out[i] = c.Position()
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func surname(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}
