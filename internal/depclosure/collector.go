// Package depclosure computes the ordered set of type identifiers a root
// type's C++ rendering depends on, so the renderer can emit a legal
// translation unit: forward declarations first, full definitions in a
// topological order, root last.
package depclosure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/resym-go/resymgo/internal/cxx"
	"github.com/resym-go/resymgo/pdb"
)

// Closure is the result of collecting a root type's dependencies.
type Closure struct {
	// ForwardDecls are types that need only `class Foo;`-style declarations.
	ForwardDecls []pdb.TypeIndex
	// FullDefs are types that need complete definitions, in a legal
	// declaration order (root last).
	FullDefs []pdb.TypeIndex
	// CycleNotes are human-readable comments for value-edge cycles detected
	// during collection; emission continues past them (spec rule 4.4.5).
	CycleNotes []string
	// StdElided holds every identifier elided from the closure because its
	// canonical name begins with std:: and IgnoreStdTypes was set.
	StdElided map[pdb.TypeIndex]bool
}

// Collector walks a PDB's type graph to build dependency closures.
type Collector struct {
	types *pdb.TypeTable
}

// New returns a Collector over the given type table.
func New(types *pdb.TypeTable) *Collector {
	return &Collector{types: types}
}

type state struct {
	types       *pdb.TypeTable
	ignoreStd   bool
	fullDone    map[pdb.TypeIndex]bool
	onStack     map[pdb.TypeIndex]bool
	order       []pdb.TypeIndex
	forwardOnly map[pdb.TypeIndex]bool
	cycleNotes  []string
	stdElided   map[pdb.TypeIndex]bool
}

// Collect builds the dependency closure for root under policy. When
// policy.ReconstructDependencies is false, the closure is just the root
// itself (spec.md §4.4/§4.6: symbol declarations reference types by name
// only).
func (c *Collector) Collect(root pdb.TypeIndex, policy cxx.Policy) (*Closure, error) {
	if !policy.ReconstructDependencies {
		return &Closure{FullDefs: []pdb.TypeIndex{root}, StdElided: map[pdb.TypeIndex]bool{}}, nil
	}

	s := &state{
		types:       c.types,
		ignoreStd:   policy.IgnoreStdTypes,
		fullDone:    map[pdb.TypeIndex]bool{},
		onStack:     map[pdb.TypeIndex]bool{},
		forwardOnly: map[pdb.TypeIndex]bool{},
		stdElided:   map[pdb.TypeIndex]bool{},
	}

	if err := s.visitFull(root); err != nil {
		return nil, err
	}

	var fwd []pdb.TypeIndex
	for ti := range s.forwardOnly {
		if !s.fullDone[ti] {
			fwd = append(fwd, ti)
		}
	}
	sort.Slice(fwd, func(i, j int) bool { return fwd[i] < fwd[j] })

	return &Closure{
		ForwardDecls: fwd,
		FullDefs:     s.order,
		CycleNotes:   s.cycleNotes,
		StdElided:    s.stdElided,
	}, nil
}

func isStdName(name string) bool {
	return strings.HasPrefix(name, "std::")
}

// visitForward records that ti needs at least a forward declaration. A
// forward declaration never requires recursing into the referent's own
// dependencies (spec.md §4.4 rule 1).
func (s *state) visitForward(ti pdb.TypeIndex) error {
	if ti == 0 {
		return nil
	}
	s.forwardOnly[ti] = true
	return nil
}

// visitPointerEdge routes a pointer/reference referent to a forward
// declaration, except an enum referent, which spec.md §4.4 rule 3 always
// requires as a full definition even when only ever seen through a pointer
// (an enum has no legal forward-declaration form in this renderer's output).
func (s *state) visitPointerEdge(ti pdb.TypeIndex) error {
	if ti == 0 || ti.IsSimpleType() {
		return nil
	}
	typ, err := s.types.ByIndex(ti)
	if err != nil {
		return err
	}
	if _, isEnum := typ.(*pdb.EnumType); isEnum {
		return s.visitFull(ti)
	}
	return s.visitForward(ti)
}

// visitFull records that ti needs a full definition and recurses into its
// value edges (bases, non-pointer fields, array elements, enums).
func (s *state) visitFull(ti pdb.TypeIndex) error {
	if ti == 0 || ti.IsSimpleType() {
		return nil
	}
	if s.fullDone[ti] {
		return nil
	}
	if s.onStack[ti] {
		s.cycleNotes = append(s.cycleNotes, fmt.Sprintf(
			"/* cycle detected: type 0x%x participates in a value-edge cycle */", uint32(ti)))
		return nil
	}

	typ, err := s.types.ByIndex(ti)
	if err != nil {
		return err
	}

	if s.ignoreStd && isStdName(typ.Name()) {
		s.stdElided[ti] = true
		s.fullDone[ti] = true
		return nil
	}

	s.onStack[ti] = true

	switch t := typ.(type) {
	case *pdb.ClassType:
		if err := s.visitComposite(ti, t.Name(), t.FieldList()); err != nil {
			return err
		}
	case *pdb.StructType:
		if err := s.visitComposite(ti, t.Name(), t.FieldList()); err != nil {
			return err
		}
	case *pdb.UnionType:
		if err := s.visitComposite(ti, t.Name(), t.FieldList()); err != nil {
			return err
		}
	case *pdb.ModifierType:
		if err := s.classifyEdge(t.ModifiedType()); err != nil {
			return err
		}
	case *pdb.ArrayType:
		if err := s.classifyEdge(t.ElementType()); err != nil {
			return err
		}
	case *pdb.BitfieldType:
		if err := s.classifyEdge(t.UnderlyingType()); err != nil {
			return err
		}
	case *pdb.PointerType:
		if err := s.visitPointerEdge(t.ReferentType()); err != nil {
			return err
		}
	}

	s.onStack[ti] = false
	s.fullDone[ti] = true
	s.order = append(s.order, ti)
	return nil
}

func (s *state) visitComposite(owner pdb.TypeIndex, ownerName string, fieldList pdb.TypeIndex) error {
	breakdown, err := s.types.GetFieldListBreakdown(owner, ownerName, fieldList)
	if err != nil {
		return err
	}

	// Bases are always a value edge: you cannot forward-declare away a base
	// class subobject's layout contribution (spec.md §4.4 rule 2).
	bases := append([]*pdb.BaseInfo(nil), breakdown.Bases...)
	sort.Slice(bases, func(i, j int) bool { return bases[i].Type < bases[j].Type })
	for _, b := range bases {
		if err := s.visitFull(b.Type); err != nil {
			return err
		}
	}

	fields := append([]*pdb.Member(nil), breakdown.Fields...)
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Offset != fields[j].Offset {
			return fields[i].Offset < fields[j].Offset
		}
		return fields[i].Name < fields[j].Name
	})
	for _, f := range fields {
		if err := s.classifyEdge(f.Type); err != nil {
			return err
		}
	}

	for _, m := range breakdown.Methods {
		// Method signatures reference types by name only when rendered
		// (spec.md §4.6); they do not pull their argument/return types into
		// the closure.
		_ = m
	}

	return nil
}

// classifyEdge decides whether referencing ti is a pointer/reference edge
// (forward declaration suffices) or a value edge (full definition
// required), unwrapping modifier wrappers and recursing into array
// elements along the way.
func (s *state) classifyEdge(ti pdb.TypeIndex) error {
	if ti == 0 || ti.IsSimpleType() {
		return nil
	}

	typ, err := s.types.ByIndex(ti)
	if err != nil {
		return err
	}

	switch t := typ.(type) {
	case *pdb.PointerType:
		return s.visitPointerEdge(t.ReferentType())
	case *pdb.ModifierType:
		return s.classifyEdge(t.ModifiedType())
	case *pdb.ArrayType:
		return s.classifyEdge(t.ElementType())
	default:
		return s.visitFull(ti)
	}
}
