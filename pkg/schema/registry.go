package schema

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
)

// Registry indexes the table descriptors of a set of record types.
// It is immutable once Build returns and safe for concurrent reads.
type Registry struct {
	tables []*Table
	byID   map[int]*Table
	byName map[string]*Table
	short  map[string][]*Table
}

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger used while building.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type builder struct {
	specs    map[string]*TypeSpec
	reg      *Registry
	visiting map[string]bool
	logger   *slog.Logger
}

// Build validates specs and returns their registry. Each type is built once,
// after its parent. Specs are registered in the given order, parents first.
// Any declaration problem aborts the build with a *core.DeclarationError.
func Build(specs []TypeSpec, opts ...Option) (*Registry, error) {
	b := &builder{
		specs:    make(map[string]*TypeSpec, len(specs)),
		visiting: make(map[string]bool),
		logger:   slog.New(slog.DiscardHandler),
		reg: &Registry{
			byID:   make(map[int]*Table, len(specs)),
			byName: make(map[string]*Table, len(specs)),
			short:  make(map[string][]*Table, len(specs)),
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	for i := range specs {
		s := &specs[i]
		if s.Name == "" {
			return nil, &core.DeclarationError{Type: fmt.Sprintf("#%d", i), Reason: "has no name"}
		}
		if _, dup := b.specs[s.Name]; dup {
			return nil, &core.DeclarationError{Type: s.Name, Reason: "is declared twice"}
		}
		b.specs[s.Name] = s
	}

	for i := range specs {
		if _, err := b.build(specs[i].Name); err != nil {
			return nil, err
		}
	}

	if err := b.checkTargets(); err != nil {
		return nil, err
	}

	b.logger.Debug("registry built", slog.Int("tables", len(b.reg.tables)))
	return b.reg, nil
}

func (b *builder) build(name string) (*Table, error) {
	if t, ok := b.reg.byName[name]; ok {
		return t, nil
	}
	if b.visiting[name] {
		return nil, &core.DeclarationError{Type: name, Reason: "inherits from itself"}
	}
	s, ok := b.specs[name]
	if !ok {
		return nil, &core.DeclarationError{Type: name, Reason: "is not declared"}
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	var parent *Table
	if s.Parent != "" {
		if _, declared := b.specs[s.Parent]; !declared {
			return nil, &core.DeclarationError{Type: s.Name, Reason: fmt.Sprintf("extends undeclared type %s", s.Parent)}
		}
		p, err := b.build(s.Parent)
		if err != nil {
			return nil, err
		}
		parent = p
	}

	if s.ID <= 0 {
		return nil, &core.DeclarationError{Type: s.Name, Reason: "id should be > 0"}
	}
	if prev, ok := b.reg.byID[s.ID]; ok {
		return nil, &core.DeclarationError{
			Type:   s.Name,
			Reason: fmt.Sprintf("duplicate id %d in %s and %s", s.ID, prev.name, s.Name),
		}
	}

	t, err := newTable(s, parent)
	if err != nil {
		return nil, err
	}

	b.reg.tables = append(b.reg.tables, t)
	b.reg.byID[t.id] = t
	b.reg.byName[t.name] = t
	b.reg.short[t.ShortName()] = append(b.reg.short[t.ShortName()], t)

	b.logger.Debug("registered table",
		slog.String("type", t.name),
		slog.Int("id", t.id),
		slog.Int("fields", len(t.fields)),
		slog.Bool("abstract", t.abstract))
	return t, nil
}

func newTable(s *TypeSpec, parent *Table) (*Table, error) {
	t := &Table{
		id:       s.ID,
		name:     s.Name,
		abstract: s.Abstract,
		parent:   parent,
		byName:   make(map[string]*Field),
	}

	offset := 0
	taken := make(map[string]string) // name -> declaring type
	if parent != nil {
		offset = len(parent.fields)
		t.fields = make([]*Field, 0, offset+len(s.Fields))
		t.fields = append(t.fields, parent.fields...)
		for k, f := range parent.byName {
			t.byName[k] = f
		}
		for _, f := range parent.fields {
			taken[f.name] = f.owner
			taken[f.member] = f.owner
		}
		for _, c := range parent.computed {
			taken[c.name] = c.owner
		}
		for _, m := range parent.members {
			taken[m] = parent.name
		}
		t.computed = append(t.computed, parent.computed...)
		t.members = append(t.members, parent.members...)
	}

	claim := func(member, name string) error {
		if owner, dup := taken[name]; dup {
			return &core.DeclarationError{Type: s.Name, Member: member, Reason: fmt.Sprintf("duplicates a member of %s", owner)}
		}
		taken[name] = s.Name
		return nil
	}

	for i := range s.Fields {
		fs := &s.Fields[i]
		f, err := newField(s.Name, fs, offset+i)
		if err != nil {
			return nil, err
		}
		if err := claim(fs.Member, f.name); err != nil {
			return nil, err
		}
		if f.member != f.name {
			if err := claim(fs.Member, f.member); err != nil {
				return nil, err
			}
		}
		t.fields = append(t.fields, f)
		t.byName[f.name] = f
		t.byName[f.member] = f
	}

	for _, m := range s.Members {
		if m.Name == "" {
			return nil, &core.DeclarationError{Type: s.Name, Member: "?", Reason: "member has no name"}
		}
		if !m.Transient {
			return nil, &core.DeclarationError{Type: s.Name, Member: m.Name, Reason: "is not a field and must be marked transient"}
		}
		if err := claim(m.Name, m.Name); err != nil {
			return nil, err
		}
		t.members = append(t.members, m.Name)
	}

	for _, cs := range s.Computed {
		c, err := newComputed(t, cs)
		if err != nil {
			return nil, err
		}
		if err := claim(cs.Name, c.name); err != nil {
			return nil, err
		}
		t.computed = append(t.computed, c)
	}

	return t, nil
}

func newField(typeName string, fs *FieldSpec, index int) (*Field, error) {
	fail := func(reason string) error {
		return &core.DeclarationError{Type: typeName, Member: fs.Member, Reason: reason}
	}

	if fs.Member == "" {
		return nil, &core.DeclarationError{Type: typeName, Member: fmt.Sprintf("[%d]", index), Reason: "field has no member name"}
	}
	if !fs.Variant.IsValid() {
		return nil, fail(fmt.Sprintf("has invalid variant %s", fs.Variant))
	}
	if fs.Variant == core.FUNC {
		return nil, fail("FUNC members must be declared as computed")
	}
	if fs.Mutable {
		return nil, fail("should be final")
	}
	if fs.Index != nil && *fs.Index != index {
		return nil, fail(fmt.Sprintf("declares index %d but occupies column %d", *fs.Index, index))
	}

	d := fs.Variant.Defaults()
	f := &Field{
		name:     fs.Member,
		member:   fs.Member,
		variant:  fs.Variant,
		target:   fs.Target,
		index:    index,
		length:   d.Length,
		required: d.Required,
		deferred: d.Deferred,
		owner:    typeName,
	}
	if fs.Column != "" {
		f.name = fs.Column
	}
	if fs.Required != nil {
		f.required = *fs.Required
	}
	if fs.Deferred != nil {
		f.deferred = *fs.Deferred
	}
	if fs.Length != 0 {
		f.length = fs.Length
	}

	if f.length < 0 {
		return nil, fail("length should be >= 0")
	}
	if fs.Variant.IsBoundedText() && f.length == 0 {
		return nil, fail("zero-length is prohibited")
	}
	if fs.Variant.MustBeRequired() && !f.required {
		return nil, fail("is required")
	}
	if fs.Target != "" && !fs.Variant.IsReference() {
		return nil, fail(fmt.Sprintf("%s fields take no target", fs.Variant))
	}
	if fs.Variant == core.REF && fs.Target == "" {
		return nil, fail("REF fields need a target type")
	}

	pattern := d.Pattern
	if fs.Pattern != "" {
		pattern = fs.Pattern
	}
	if pattern != "" {
		if !fs.Variant.IsText() {
			return nil, fail(fmt.Sprintf("%s fields take no pattern", fs.Variant))
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fail(fmt.Sprintf("has invalid pattern: %v", err))
		}
		f.pattern = re
	}
	return f, nil
}

func newComputed(t *Table, cs ComputedSpec) (*Computed, error) {
	fail := func(reason string) error {
		return &core.DeclarationError{Type: t.name, Member: cs.Name, Reason: reason}
	}
	if cs.Name == "" {
		return nil, &core.DeclarationError{Type: t.name, Member: "?", Reason: "computed member has no name"}
	}
	fi, ok := LookupFunction(strings.ToLower(cs.Function))
	if !ok {
		return nil, fail(fmt.Sprintf("uses unknown function %q (available: %s)", cs.Function, strings.Join(Functions(), ", ")))
	}
	src, ok := t.byName[cs.Source]
	if !ok {
		return nil, fail(fmt.Sprintf("reads unknown field %q", cs.Source))
	}
	if !fi.Accepts(src.variant) {
		return nil, fail(fmt.Sprintf("%s cannot read %s field %s", fi.Name, src.variant, src.name))
	}
	return &Computed{
		name:     cs.Name,
		function: fi.Name,
		massive:  fi.Massive,
		source:   src,
		owner:    t.name,
	}, nil
}

func (b *builder) checkTargets() error {
	for _, t := range b.reg.tables {
		for _, f := range t.fields {
			if f.owner != t.name || f.variant != core.REF {
				continue
			}
			if _, ok := b.reg.byName[f.target]; !ok {
				return &core.DeclarationError{Type: t.name, Member: f.member, Reason: fmt.Sprintf("references undeclared type %s", f.target)}
			}
		}
	}
	return nil
}

// ByID returns the table with the given id.
func (r *Registry) ByID(id int) (*Table, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// ByName returns the table for a fully-qualified type name. A short name is
// accepted when it is unambiguous.
func (r *Registry) ByName(name string) (*Table, bool) {
	if t, ok := r.byName[name]; ok {
		return t, true
	}
	if ts := r.short[name]; len(ts) == 1 {
		return ts[0], true
	}
	return nil, false
}

// Tables returns every table in registration order, parents before children.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// Len returns the number of registered tables.
func (r *Registry) Len() int { return len(r.tables) }

// RenderAll renders every concrete table, separated by blank lines.
func (r *Registry) RenderAll(p *dialect.Profile) (string, error) {
	parts := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		if t.abstract {
			continue
		}
		ddl, err := Render(t, p)
		if err != nil {
			return "", err
		}
		parts = append(parts, ddl)
	}
	return strings.Join(parts, "\n\n"), nil
}
