// Package dataset holds the champion data behind the reference pool server:
// each role's champion list and, per champion, the champions it counters.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownRole is returned when a store has no data for a role.
var ErrUnknownRole = errors.New("dataset: unknown role")

// RoleData is one role's champion list and counter map.
type RoleData struct {
	Champions []string            `yaml:"champions" json:"champions"`
	Counters  map[string][]string `yaml:"counters,omitempty" json:"counters,omitempty"`
}

// Dataset maps role names to their data. It is the YAML file layout.
type Dataset struct {
	Roles map[string]RoleData `yaml:"roles"`
}

// Store serves role data to the pool server.
type Store interface {
	Role(role string) (RoleData, error)
	RoleNames() ([]string, error)
}

// LoadFile reads and normalizes a YAML dataset.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and normalizes a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("dataset: parse: %w", err)
	}
	if len(ds.Roles) == 0 {
		return nil, fmt.Errorf("dataset: no roles defined")
	}
	normalized := make(map[string]RoleData, len(ds.Roles))
	for role, rd := range ds.Roles {
		name := strings.TrimSpace(role)
		if name == "" {
			return nil, fmt.Errorf("dataset: blank role name")
		}
		clean, err := rd.Normalize()
		if err != nil {
			return nil, fmt.Errorf("dataset: role %s: %w", name, err)
		}
		normalized[name] = clean
	}
	ds.Roles = normalized
	return &ds, nil
}

// Normalize trims names, drops duplicate champions and drops counter entries
// naming champions outside the role.
func (rd RoleData) Normalize() (RoleData, error) {
	seen := map[string]struct{}{}
	champions := make([]string, 0, len(rd.Champions))
	for _, c := range rd.Champions {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		champions = append(champions, c)
	}
	if len(champions) == 0 {
		return RoleData{}, fmt.Errorf("champions must not be empty")
	}
	counters := make(map[string][]string, len(rd.Counters))
	for champ, beats := range rd.Counters {
		champ = strings.TrimSpace(champ)
		if _, ok := seen[champ]; !ok {
			continue
		}
		kept := make([]string, 0, len(beats))
		dup := map[string]struct{}{}
		for _, b := range beats {
			b = strings.TrimSpace(b)
			if _, ok := seen[b]; !ok {
				continue
			}
			if _, ok := dup[b]; ok {
				continue
			}
			dup[b] = struct{}{}
			kept = append(kept, b)
		}
		counters[champ] = kept
	}
	return RoleData{Champions: champions, Counters: counters}, nil
}

// MemoryStore serves a parsed dataset.
type MemoryStore struct {
	ds *Dataset
}

// NewMemoryStore wraps ds.
func NewMemoryStore(ds *Dataset) *MemoryStore {
	if ds == nil {
		ds = &Dataset{}
	}
	return &MemoryStore{ds: ds}
}

// Role returns the data for role.
func (m *MemoryStore) Role(role string) (RoleData, error) {
	rd, ok := m.ds.Roles[role]
	if !ok {
		return RoleData{}, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	return rd, nil
}

// RoleNames lists the roles in lexical order.
func (m *MemoryStore) RoleNames() ([]string, error) {
	names := make([]string, 0, len(m.ds.Roles))
	for name := range m.ds.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
