// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry holds the namespace tables that map retrieval
// collections to source types. A Registry is immutable once built and is
// passed to the classifier explicitly, so tests can substitute fixtures.
package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citerank/pkg/types"
)

// DefaultVersion identifies the built-in tables. Bump it whenever a
// namespace is added to or removed from defaultTables.
const DefaultVersion = "2026.10.1"

// defaultTables lists the known corpus identities per source type.
var defaultTables = File{
	Version: DefaultVersion,
	Risale: []string{
		"risale-i-nur",
		"risale-i-nur-en",
		"risale-i-nur-tr",
		"risale-nur-sozler",
		"risale-nur-mektubat",
		"risale-nur-lemalar",
		"risale-nur-sualar",
	},
	Video: []string{
		"youtube-qa-pairs",
		"youtube-transcripts",
		"youtube-lectures",
		"youtube-khutbahs",
	},
	Tafsir: []string{
		"tafsir-ibn-kathir",
		"tafsir-al-jalalayn",
		"tafsir-al-tabari",
		"tafsir-al-qurtubi",
		"tafsir-maarif-ul-quran",
		"tafsir-tazkirul-quran",
	},
}

// File is the on-disk YAML shape of a registry.
type File struct {
	Version string   `yaml:"version"`
	Risale  []string `yaml:"risale"`
	Video   []string `yaml:"youtube"`
	Tafsir  []string `yaml:"tafsir"`
}

// Registry maps namespace strings to the RIS, YT, and TAF source types.
type Registry struct {
	version string
	risale  map[string]struct{}
	video   map[string]struct{}
	tafsir  map[string]struct{}
}

// Default returns the built-in registry.
func Default() *Registry {
	return build(defaultTables)
}

// New builds a registry from f and validates it.
func New(f File) (*Registry, error) {
	for _, list := range [][]string{f.Risale, f.Video, f.Tafsir} {
		for i, ns := range list {
			if strings.TrimSpace(ns) == "" {
				return nil, fmt.Errorf("blank namespace at position %d", i)
			}
		}
	}
	r := build(f)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load reads a registry YAML file from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("registry %s: version is required", path)
	}
	r, err := New(f)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return r, nil
}

func build(f File) *Registry {
	return &Registry{
		version: f.Version,
		risale:  toSet(f.Risale),
		video:   toSet(f.Video),
		tafsir:  toSet(f.Tafsir),
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.TrimSpace(n)] = struct{}{}
	}
	return set
}

// Version returns the registry version label.
func (r *Registry) Version() string { return r.version }

// Validate returns an error naming every namespace that appears in more
// than one table. Lookup order would silently decide such namespaces.
func (r *Registry) Validate() error {
	owners := make(map[string][]types.SourceType)
	for _, t := range r.tables() {
		for ns := range t.set {
			owners[ns] = append(owners[ns], t.typ)
		}
	}

	var conflicts []string
	for ns, ts := range owners {
		if len(ts) > 1 {
			parts := make([]string, len(ts))
			for i, t := range ts {
				parts[i] = string(t)
			}
			conflicts = append(conflicts, fmt.Sprintf("%s (%s)", ns, strings.Join(parts, ", ")))
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	sort.Strings(conflicts)
	return fmt.Errorf("namespaces registered under more than one source type: %s", strings.Join(conflicts, "; "))
}

// Lookup returns the source type registered for namespace, checking the
// RIS, YT, and TAF tables in that order.
func (r *Registry) Lookup(namespace string) (types.SourceType, bool) {
	for _, t := range r.tables() {
		if _, ok := t.set[namespace]; ok {
			return t.typ, true
		}
	}
	return "", false
}

// Namespaces returns the sorted namespaces registered for typ.
func (r *Registry) Namespaces(typ types.SourceType) []string {
	for _, t := range r.tables() {
		if t.typ != typ {
			continue
		}
		out := make([]string, 0, len(t.set))
		for ns := range t.set {
			out = append(out, ns)
		}
		sort.Strings(out)
		return out
	}
	return nil
}

// File returns the registry in its YAML shape with sorted tables.
func (r *Registry) File() File {
	return File{
		Version: r.version,
		Risale:  r.Namespaces(types.SourceRisale),
		Video:   r.Namespaces(types.SourceVideo),
		Tafsir:  r.Namespaces(types.SourceTafsir),
	}
}

type table struct {
	typ types.SourceType
	set map[string]struct{}
}

func (r *Registry) tables() []table {
	return []table{
		{types.SourceRisale, r.risale},
		{types.SourceVideo, r.video},
		{types.SourceTafsir, r.tafsir},
	}
}
