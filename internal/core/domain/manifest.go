package domain

import (
	"sort"

	"go.trai.ch/zerr"
)

// Manifest is the validated, immutable set of phases loaded from the
// manifest file. Phases are kept sorted by ascending index.
type Manifest struct {
	phases []Phase

	// byName maps package name to its spec for dependency lookups.
	byName map[string]PackageSpec

	// order maps package name to its declaration position in the manifest.
	// Topological ties are broken by this position so two runs over the same
	// manifest always produce the same build order.
	order map[string]int

	// dependents maps package name to the names that depend on it.
	dependents map[string][]string
}

// NewManifest validates the given phases and returns a Manifest.
// It rejects duplicate phase indices, duplicate package names, dependencies
// on undeclared packages, and dependency cycles.
func NewManifest(phases []Phase) (*Manifest, error) {
	if len(phases) == 0 {
		return nil, ErrNoPhases
	}

	m := &Manifest{
		phases:     make([]Phase, len(phases)),
		byName:     make(map[string]PackageSpec),
		order:      make(map[string]int),
		dependents: make(map[string][]string),
	}
	copy(m.phases, phases)
	sort.SliceStable(m.phases, func(i, j int) bool {
		return m.phases[i].Index < m.phases[j].Index
	})

	seen := make(map[int]bool)
	pos := 0
	for _, ph := range m.phases {
		if seen[ph.Index] {
			return nil, zerr.With(zerr.Wrap(ErrDuplicatePhase, "manifest rejected"), "phase", ph.Index)
		}
		seen[ph.Index] = true

		for _, spec := range ph.Packages {
			if _, exists := m.byName[spec.Name]; exists {
				return nil, zerr.With(zerr.Wrap(ErrDuplicatePackage, "manifest rejected"), "package", spec.Name)
			}
			m.byName[spec.Name] = spec
			m.order[spec.Name] = pos
			pos++
		}
	}

	for name, spec := range m.byName {
		for _, dep := range spec.DependsOn {
			if _, ok := m.byName[dep]; !ok {
				return nil, zerr.With(
					zerr.With(zerr.Wrap(ErrUnknownDependency, "manifest rejected"), "package", name),
					"dependency", dep,
				)
			}
			m.dependents[dep] = append(m.dependents[dep], name)
		}
	}

	if err := m.checkCycles(); err != nil {
		return nil, err
	}

	return m, nil
}

// Phases returns the phases in ascending index order.
func (m *Manifest) Phases() []Phase {
	return m.phases
}

// Package returns the spec for the given package name.
func (m *Manifest) Package(name string) (PackageSpec, bool) {
	spec, ok := m.byName[name]
	return spec, ok
}

// HasPhase reports whether a phase with the given index is declared.
func (m *Manifest) HasPhase(index int) bool {
	for _, ph := range m.phases {
		if ph.Index == index {
			return true
		}
	}
	return false
}

// HasDependents reports whether any package in the manifest depends on name.
// The generic-install fallback tier is only permitted for packages nothing
// else builds on top of.
func (m *Manifest) HasDependents(name string) bool {
	return len(m.dependents[name]) > 0
}

// Closure returns the dependency-closed package set for the phase in
// topological order. Packages referenced through DependsOn are included
// transitively even when they are declared in an earlier phase, so a
// dependency whose build was skipped there is still resolvable here.
// Ties are broken by manifest declaration order.
func (m *Manifest) Closure(phase Phase) ([]PackageSpec, error) {
	included := make(map[string]bool)
	queue := make([]string, 0, len(phase.Packages))
	for _, spec := range phase.Packages {
		queue = append(queue, spec.Name)
		included[spec.Name] = true
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, dep := range m.byName[name].DependsOn {
			if !included[dep] {
				included[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	return m.topoSort(included)
}

// topoSort runs a deterministic Kahn sort restricted to the given set.
// The ready list is kept ordered by manifest declaration position.
func (m *Manifest) topoSort(set map[string]bool) ([]PackageSpec, error) {
	inDegree := make(map[string]int, len(set))
	for name := range set {
		degree := 0
		for _, dep := range m.byName[name].DependsOn {
			if set[dep] {
				degree++
			}
		}
		inDegree[name] = degree
	}

	var ready []string
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	m.sortByPosition(ready)

	ordered := make([]PackageSpec, 0, len(set))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		ordered = append(ordered, m.byName[name])

		released := false
		for _, dependent := range m.dependents[name] {
			if !set[dependent] {
				continue
			}
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
				released = true
			}
		}
		if released {
			m.sortByPosition(ready)
		}
	}

	if len(ordered) != len(set) {
		return nil, ErrDependencyCycle
	}
	return ordered, nil
}

func (m *Manifest) sortByPosition(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return m.order[names[i]] < m.order[names[j]]
	})
}

// checkCycles validates the whole dependency graph once at load time.
func (m *Manifest) checkCycles() error {
	all := make(map[string]bool, len(m.byName))
	for name := range m.byName {
		all[name] = true
	}
	if _, err := m.topoSort(all); err != nil {
		return err
	}
	return nil
}
