// Package domain contains the core domain models for units, caches and the unit dependency graph.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph is an insertion-ordered collection of units keyed by name.
// Dependencies between units are name lookups, never pointers.
type Graph struct {
	units map[string]*Unit
	order []*Unit
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		units: make(map[string]*Unit),
	}
}

// Add appends a unit to the graph.
// It returns an error if a unit with the same name already exists.
func (g *Graph) Add(u *Unit) error {
	if _, exists := g.units[u.Name]; exists {
		return zerr.With(zerr.Wrap(ErrUnitAlreadyExists, "failed to add unit"), "unit", u.Name)
	}
	g.units[u.Name] = u
	g.order = append(g.order, u)
	return nil
}

// Remove deletes the given unit from the graph. Matching is by identity, so a
// different unit that happens to share the name is left alone.
// It reports whether the unit was present.
func (g *Graph) Remove(u *Unit) bool {
	for i, candidate := range g.order {
		if candidate != u {
			continue
		}
		g.order = append(g.order[:i], g.order[i+1:]...)
		delete(g.units, u.Name)
		return true
	}
	return false
}

// Get returns the unit with the given name.
func (g *Graph) Get(name string) (*Unit, bool) {
	u, ok := g.units[name]
	return u, ok
}

// Len returns the number of units.
func (g *Graph) Len() int {
	return len(g.order)
}

// Units yields the units in insertion order.
func (g *Graph) Units() iter.Seq[*Unit] {
	return func(yield func(*Unit) bool) {
		for _, u := range g.order {
			if !yield(u) {
				return
			}
		}
	}
}

// Names returns the unit names in insertion order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.order))
	for _, u := range g.order {
		names = append(names, u.Name)
	}
	return names
}

// ResetBuilt clears the Built flag on every unit so the graph can be built again.
func (g *Graph) ResetBuilt() {
	for _, u := range g.order {
		u.Built = false
	}
}

// Order returns every unit in build order: each unit appears after all of its
// dependencies. Siblings keep declaration order.
func (g *Graph) Order() ([]*Unit, error) {
	return g.resolveOrder(g.Names())
}

// OrderFor returns the named units and their transitive dependencies in build order.
func (g *Graph) OrderFor(names ...string) ([]*Unit, error) {
	for _, name := range names {
		if _, ok := g.Get(name); !ok {
			return nil, zerr.With(zerr.Wrap(ErrUnitNotFound, "failed to resolve build order"), "unit", name)
		}
	}
	return g.resolveOrder(names)
}

// resolveOrder runs a depth-first search from roots with visiting/visited
// markers. A back edge is a cycle.
func (g *Graph) resolveOrder(roots []string) ([]*Unit, error) {
	const (
		unvisited = iota
		visiting
		visited
	)

	result := make([]*Unit, 0, len(g.order))
	state := make(map[string]int, len(g.order))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = visiting
		path = append(path, name)

		u := g.units[name]
		for _, dep := range u.Dependencies {
			if _, exists := g.units[dep]; !exists {
				return zerr.With(zerr.With(zerr.Wrap(ErrMissingDependency, "failed to resolve build order"),
					"unit", u.Name), "dependency", dep)
			}
			switch state[dep] {
			case visiting:
				return g.buildCycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[name] = visited
		path = path[:len(path)-1]
		result = append(result, u)
		return nil
	}

	for _, root := range roots {
		if state[root] == unvisited {
			if err := visit(root); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []string, dep string) error {
	cyclePath := ""
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i] + " -> "
	}
	cyclePath += dep
	return zerr.With(zerr.Wrap(ErrCycleDetected, "failed to resolve build order"), "cycle", cyclePath)
}
