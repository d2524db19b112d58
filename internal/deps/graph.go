// Package deps builds the dependency graph between record types. A type
// depends on its parent and on every type its own REF fields point at.
// The graph answers impact questions: which types are affected when a type
// changes, and which types a type relies on.
package deps

import (
	"fmt"
	"slices"
	"sort"

	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
)

// Kind labels why one type depends on another.
type Kind string

// Dependency kinds.
const (
	Extends Kind = "extends"
	Refers  Kind = "refers"
)

// Edge is a dependency of From on To.
type Edge struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Kind  Kind   `yaml:"kind"`
	Field string `yaml:"field,omitempty"`
}

// Graph is an immutable dependency graph keyed by fully-qualified type name.
type Graph struct {
	nodes      map[string]*schema.Table
	dependents map[string][]Edge // To -> edges pointing at it
	requires   map[string][]Edge // From -> its edges
}

// Build derives the graph of reg. Self references are not edges.
func Build(reg *schema.Registry) *Graph {
	g := &Graph{
		nodes:      make(map[string]*schema.Table, reg.Len()),
		dependents: make(map[string][]Edge),
		requires:   make(map[string][]Edge),
	}
	for _, t := range reg.Tables() {
		g.nodes[t.Name()] = t
	}
	for _, t := range reg.Tables() {
		if p := t.Parent(); p != nil {
			g.add(Edge{From: t.Name(), To: p.Name(), Kind: Extends})
		}
		for _, f := range t.Fields() {
			if f.Owner() != t.Name() || f.Variant() != core.REF || f.Target() == t.Name() {
				continue
			}
			g.add(Edge{From: t.Name(), To: f.Target(), Kind: Refers, Field: f.Name()})
		}
	}
	return g
}

func (g *Graph) add(e Edge) {
	g.dependents[e.To] = append(g.dependents[e.To], e)
	g.requires[e.From] = append(g.requires[e.From], e)
}

// Has reports whether name is a node of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Len returns the number of types.
func (g *Graph) Len() int { return len(g.nodes) }

// Dependents returns the edges pointing at name, in declaration order.
func (g *Graph) Dependents(name string) []Edge {
	return slices.Clone(g.dependents[name])
}

// Dependencies returns the edges leaving name, in declaration order.
func (g *Graph) Dependencies(name string) []Edge {
	return slices.Clone(g.requires[name])
}

// Affected returns every type affected by a change to the given types: the
// types themselves plus everything that transitively depends on them.
// Unknown names are ignored.
func (g *Graph) Affected(names ...string) []string {
	return g.closure(names, true, func(n string) []Edge { return g.dependents[n] }, func(e Edge) string { return e.From })
}

// Upstream returns every type name transitively depends on, excluding name.
func (g *Graph) Upstream(name string) []string {
	return g.closure([]string{name}, false, func(n string) []Edge { return g.requires[n] }, func(e Edge) string { return e.To })
}

func (g *Graph) closure(start []string, includeStart bool, next func(string) []Edge, end func(Edge) string) []string {
	seen := make(map[string]bool)
	var visit func(string)
	visit = func(n string) {
		for _, e := range next(n) {
			if m := end(e); !seen[m] {
				seen[m] = true
				visit(m)
			}
		}
	}
	for _, n := range start {
		if !g.Has(n) {
			continue
		}
		if includeStart {
			seen[n] = true
		}
		visit(n)
	}
	if !includeStart {
		for _, n := range start {
			delete(seen, n)
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Roots returns the types with no dependencies.
func (g *Graph) Roots() []string {
	var out []string
	for n := range g.nodes {
		if len(g.requires[n]) == 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Leaves returns the types nothing depends on.
func (g *Graph) Leaves() []string {
	var out []string
	for n := range g.nodes {
		if len(g.dependents[n]) == 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Cycle returns one reference cycle, first type repeated at the end, or nil.
// Cycles are legal: two types may refer to each other.
func (g *Graph) Cycle() []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string
	var cycle []string

	var dfs func(n string) bool
	dfs = func(n string) bool {
		visited[n] = true
		onStack[n] = true
		stack = append(stack, n)
		for _, e := range g.requires[n] {
			if onStack[e.To] {
				i := slices.Index(stack, e.To)
				cycle = append(slices.Clone(stack[i:]), e.To)
				return true
			}
			if !visited[e.To] && dfs(e.To) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		onStack[n] = false
		return false
	}

	names := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if !visited[n] && dfs(n) {
			return cycle
		}
	}
	return nil
}

// Levels groups types so that each type's dependencies sit in earlier
// levels. It fails when the types refer to each other in a cycle.
func (g *Graph) Levels() ([][]string, error) {
	if c := g.Cycle(); c != nil {
		return nil, fmt.Errorf("reference cycle: %v", c)
	}

	level := make(map[string]int, len(g.nodes))
	var depth func(n string) int
	depth = func(n string) int {
		if l, ok := level[n]; ok {
			return l
		}
		l := 0
		for _, e := range g.requires[n] {
			l = max(l, depth(e.To)+1)
		}
		level[n] = l
		return l
	}

	var out [][]string
	for n := range g.nodes {
		l := depth(n)
		for len(out) <= l {
			out = append(out, nil)
		}
		out[l] = append(out[l], n)
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out, nil
}
