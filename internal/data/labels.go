package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/framecs/runtime/internal/core/ecs"
)

// labelsFile is the on-disk shape of labels.yaml.
type labelsFile struct {
	Groups map[string]uint `yaml:"groups"`
	Layers map[string]uint `yaml:"layers"`
}

// LabelTable maps human-readable group and layer names to their indices,
// so scripts and config can refer to "enemy" instead of 1.
type LabelTable struct {
	groups map[string]ecs.Group
	layers map[string]ecs.Layer
}

// LoadLabels loads labels.yaml.
func LoadLabels(path string) (*LabelTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return ParseLabels(raw)
}

func ParseLabels(raw []byte) (*LabelTable, error) {
	var f labelsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	t := &LabelTable{
		groups: make(map[string]ecs.Group, len(f.Groups)),
		layers: make(map[string]ecs.Layer, len(f.Layers)),
	}
	for name, idx := range f.Groups {
		if idx >= ecs.MaxGroups {
			return nil, fmt.Errorf("group %q: index %d out of range [0,%d)", name, idx, ecs.MaxGroups)
		}
		t.groups[name] = ecs.Group(idx)
	}
	for name, idx := range f.Layers {
		if idx >= ecs.MaxLayers {
			return nil, fmt.Errorf("layer %q: index %d out of range [0,%d)", name, idx, ecs.MaxLayers)
		}
		t.layers[name] = ecs.Layer(idx)
	}
	return t, nil
}

// Group returns the group registered under name.
func (t *LabelTable) Group(name string) (ecs.Group, bool) {
	g, ok := t.groups[name]
	return g, ok
}

// Layer returns the layer registered under name.
func (t *LabelTable) Layer(name string) (ecs.Layer, bool) {
	l, ok := t.layers[name]
	return l, ok
}

// GroupNames returns the group names ordered by index, then name.
func (t *LabelTable) GroupNames() []string {
	names := make([]string, 0, len(t.groups))
	for n := range t.groups {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		gi, gj := t.groups[names[i]], t.groups[names[j]]
		if gi != gj {
			return gi < gj
		}
		return names[i] < names[j]
	})
	return names
}

// Count returns the number of group and layer labels loaded.
func (t *LabelTable) Count() (groups, layers int) {
	return len(t.groups), len(t.layers)
}

// GroupTable returns a copy of the group labels as plain ints, the shape
// the Lua engine exposes as a constants table.
func (t *LabelTable) GroupTable() map[string]int {
	out := make(map[string]int, len(t.groups))
	for n, g := range t.groups {
		out[n] = int(g)
	}
	return out
}

// LayerTable is the layer counterpart of GroupTable.
func (t *LabelTable) LayerTable() map[string]int {
	out := make(map[string]int, len(t.layers))
	for n, l := range t.layers {
		out[n] = int(l)
	}
	return out
}
