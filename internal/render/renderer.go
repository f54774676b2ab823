// Package render turns PDB type information into C++ declaration text,
// combining a dependency closure from internal/depclosure with the
// formatting choices in internal/cxx.Policy.
package render

import (
	"fmt"
	"strings"

	"github.com/resym-go/resymgo/internal/cxx"
	"github.com/resym-go/resymgo/internal/depclosure"
	"github.com/resym-go/resymgo/internal/tpi"
	"github.com/resym-go/resymgo/pdb"
)

// Renderer emits C++ text for PDB types under a given types.
type Renderer struct {
	types *pdb.TypeTable
}

// New returns a Renderer over the given type table.
func New(types *pdb.TypeTable) *Renderer {
	return &Renderer{types: types}
}

const indentUnit = "    "

func indent(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

// brace returns the text that opens a body at the given indent depth,
// honoring the configured bracket style.
func brace(depth int, policy cxx.Policy) string {
	if policy.Brackets == cxx.BracketNewLine {
		return "\n" + indent(depth) + "{\n"
	}
	return " {\n"
}

// RenderClosure renders every type in closure (forward declarations, then
// full definitions in order, root last) as one translation unit, applying
// policy's header banner and include prefix when requested.
func (r *Renderer) RenderClosure(root pdb.TypeIndex, closure *depclosure.Closure, policy cxx.Policy) (string, error) {
	var b strings.Builder

	if policy.PrintHeader {
		b.WriteString(headerBanner(root))
	}
	if policy.PrintHeader || policy.ReconstructDependencies {
		if headers := cxx.IncludeHeadersForFlavor(policy.PrimitiveFlavor, policy.IgnoreStdTypes); headers != "" {
			b.WriteString(headers)
			b.WriteString("\n")
		}
	}

	for _, ti := range closure.ForwardDecls {
		decl, err := r.renderForwardDecl(ti)
		if err != nil {
			return "", err
		}
		b.WriteString(decl)
	}
	if len(closure.ForwardDecls) > 0 {
		b.WriteString("\n")
	}

	for _, note := range closure.CycleNotes {
		b.WriteString(note)
		b.WriteString("\n")
	}

	for i, ti := range closure.FullDefs {
		text, err := r.RenderType(ti, policy)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		if i != len(closure.FullDefs)-1 {
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

func headerBanner(root pdb.TypeIndex) string {
	return fmt.Sprintf(
		"//\n// Reconstructed type for index 0x%x\n// Generated by resymgo\n//\n\n",
		uint32(root))
}

// renderForwardDecl emits the minimal declaration for a type that is only
// ever referenced through a pointer or reference in the closure. Enums never
// reach here: internal/depclosure routes every enum referent through a full
// definition (spec.md §4.4 rule 3), so a non-composite arriving at this call
// is a collector bug, not a type this renderer may silently drop.
func (r *Renderer) renderForwardDecl(ti pdb.TypeIndex) (string, error) {
	typ, err := r.types.ByIndex(ti)
	if err != nil {
		return "", err
	}
	keyword, name := compositeKeyword(typ)
	if keyword == "" {
		return "", fmt.Errorf("render: type 0x%x cannot be forward-declared", uint32(ti))
	}
	return fmt.Sprintf("%s %s;\n", keyword, name), nil
}

func compositeKeyword(typ pdb.Type) (keyword, name string) {
	switch t := typ.(type) {
	case *pdb.ClassType:
		return "class", t.Name()
	case *pdb.StructType:
		return "struct", t.Name()
	case *pdb.UnionType:
		return "union", t.Name()
	default:
		return "", ""
	}
}

// RenderType emits a single type's full definition: a composite body, an
// enum body, or (for anything else) nothing, since non-composite/enum types
// never need a standalone definition of their own.
func (r *Renderer) RenderType(ti pdb.TypeIndex, policy cxx.Policy) (string, error) {
	typ, err := r.types.ByIndex(ti)
	if err != nil {
		return "", err
	}

	switch t := typ.(type) {
	case *pdb.ClassType:
		return r.renderComposite(ti, "class", t.Name(), t.Size(), t.FieldList(), t.DerivedFrom(), policy)
	case *pdb.StructType:
		return r.renderComposite(ti, "struct", t.Name(), t.Size(), t.FieldList(), t.DerivedFrom(), policy)
	case *pdb.UnionType:
		return r.renderComposite(ti, "union", t.Name(), t.Size(), t.FieldList(), 0, policy)
	case *pdb.EnumType:
		return r.renderEnum(t, policy)
	default:
		return "", nil
	}
}

func defaultAccess(keyword string) string {
	if keyword == "class" {
		return "private"
	}
	return "public"
}

// renderComposite renders a class/struct/union body: optional base-class
// list, member/method declarations grouped into access-specifier sections,
// and, per policy.SizePrintFlavor, a trailing size comment or static_assert.
func (r *Renderer) renderComposite(owner pdb.TypeIndex, keyword, name string, size uint64, fieldList, derivedFrom pdb.TypeIndex, policy cxx.Policy) (string, error) {
	var b strings.Builder

	if policy.PrintLineNumbers {
		b.WriteString(fmt.Sprintf("// type index: 0x%x\n", uint32(owner)))
	}

	b.WriteString(keyword)
	if name != "" {
		b.WriteString(" ")
		b.WriteString(name)
	}

	breakdown, err := r.types.GetFieldListBreakdown(owner, name, fieldList)
	if err != nil {
		return "", err
	}

	bases, err := r.renderBaseList(breakdown.Bases, policy)
	if err != nil {
		return "", err
	}
	if bases != "" {
		b.WriteString(" : ")
		b.WriteString(bases)
	}

	b.WriteString(brace(0, policy))

	if err := r.renderBody(&b, keyword, name, breakdown, policy, 1); err != nil {
		return "", err
	}

	b.WriteString("};")
	if policy.SizePrintFlavor == cxx.SizePrintComment {
		b.WriteString(fmt.Sprintf(" // size: 0x%x", size))
	}
	b.WriteString("\n")

	if policy.SizePrintFlavor == cxx.SizePrintStaticAssert && name != "" {
		b.WriteString(fmt.Sprintf("static_assert(sizeof(%s) == 0x%x, \"%s size mismatch\");\n", name, size, name))
	}

	return b.String(), nil
}

// renderBaseList resolves each base class's real name through typeName, the
// same path fields and methods use, rather than inventing a placeholder.
func (r *Renderer) renderBaseList(bases []*pdb.BaseInfo, policy cxx.Policy) (string, error) {
	if len(bases) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(bases))
	for _, base := range bases {
		name, err := r.typeName(base.Type, policy)
		if err != nil {
			return "", err
		}
		access := base.Access
		if access == "" {
			access = "public"
		}
		prefix := access
		if base.IsVirtual {
			prefix = "virtual " + prefix
		}
		parts = append(parts, fmt.Sprintf("%s %s", prefix, name))
	}
	return strings.Join(parts, ", "), nil
}

// renderBody emits nested types, fields, and methods in declaration order,
// grouping them under access-specifier labels according to policy. name is
// the owning composite's own name, used to tell constructors/destructors
// apart from ordinary methods; depth is the indent level of this body's
// direct members.
func (r *Renderer) renderBody(b *strings.Builder, keyword, name string, breakdown *pdb.FieldListBreakdown, policy cxx.Policy, depth int) error {
	def := defaultAccess(keyword)
	current := def
	needLabel := policy.AccessSpecifiers == cxx.AccessSpecifierAlways

	emitAccess := func(access string) {
		if access == "" {
			access = def
		}
		if policy.AccessSpecifiers == cxx.AccessSpecifierDisabled {
			return
		}
		if access != current || needLabel {
			b.WriteString(indent(depth))
			b.WriteString(access)
			b.WriteString(":\n")
			current = access
			needLabel = false
		}
	}

	// Anonymous nested unions/structs are re-attached and inlined into the
	// owning body rather than declared as a dead cross-reference, per
	// spec.md §3/§4.2-4.3's Microsoft naming re-attachment rule.
	for _, nt := range breakdown.NestedTypes {
		emitAccess(def)
		if r.isAnonymousComposite(nt.Type) {
			text, err := r.renderAnonymousComposite(nt.Type, depth, policy)
			if err != nil {
				return err
			}
			b.WriteString(text)
			continue
		}
		b.WriteString(indent(depth))
		b.WriteString(fmt.Sprintf("// nested type %s -> 0x%x\n", nt.Name, uint32(nt.Type)))
	}

	for _, f := range breakdown.Fields {
		emitAccess(f.Access)
		if r.isAnonymousComposite(f.Type) {
			text, err := r.renderAnonymousComposite(f.Type, depth, policy)
			if err != nil {
				return err
			}
			b.WriteString(text)
			continue
		}
		line, err := r.renderField(f, policy)
		if err != nil {
			return err
		}
		b.WriteString(indent(depth))
		b.WriteString(line)
		b.WriteString("\n")
	}

	if breakdown.HasVFuncTab {
		b.WriteString(indent(depth))
		b.WriteString("// vtable present\n")
	}

	for _, m := range sortedMethods(breakdown.Methods) {
		emitAccess(m.Access)
		line, err := r.renderMethod(name, m, policy)
		if err != nil {
			return err
		}
		b.WriteString(indent(depth))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return nil
}

// isAnonymousComposite reports whether ti is a union/class/struct whose name
// carries one of the Microsoft-toolchain anonymous-tag markers
// (`<unnamed-tag>`, `<anonymous-NN>`); such types are re-attached inline
// rather than declared separately (spec.md §3 invariant 3).
func (r *Renderer) isAnonymousComposite(ti pdb.TypeIndex) bool {
	if ti == 0 {
		return false
	}
	typ, err := r.types.ByIndex(ti)
	if err != nil {
		return false
	}
	switch t := typ.(type) {
	case *pdb.UnionType:
		return isAnonymousTagName(t.Name())
	case *pdb.ClassType:
		return isAnonymousTagName(t.Name())
	case *pdb.StructType:
		return isAnonymousTagName(t.Name())
	default:
		return false
	}
}

// isAnonymousTagName matches the name prefixes Microsoft toolchains assign to
// a nested union/struct that the source left untagged. Which exact prefix a
// given toolchain version emits is left open by spec.md §9; both observed
// forms are checked here.
func isAnonymousTagName(name string) bool {
	return strings.HasPrefix(name, "<unnamed-tag>") || strings.HasPrefix(name, "<anonymous-")
}

// renderAnonymousComposite inlines an anonymous union/struct/class body at
// depth, with no name of its own and no size assertion, matching how an
// anonymous member is legal C++ only when declared in place.
func (r *Renderer) renderAnonymousComposite(ti pdb.TypeIndex, depth int, policy cxx.Policy) (string, error) {
	typ, err := r.types.ByIndex(ti)
	if err != nil {
		return "", err
	}

	var keyword string
	var fieldList pdb.TypeIndex
	switch t := typ.(type) {
	case *pdb.UnionType:
		keyword, fieldList = "union", t.FieldList()
	case *pdb.ClassType:
		keyword, fieldList = "class", t.FieldList()
	case *pdb.StructType:
		keyword, fieldList = "struct", t.FieldList()
	default:
		return "", fmt.Errorf("render: type 0x%x is not an anonymous composite", uint32(ti))
	}

	breakdown, err := r.types.GetFieldListBreakdown(ti, "", fieldList)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(indent(depth))
	b.WriteString(keyword)
	b.WriteString(brace(depth, policy))
	if err := r.renderBody(&b, keyword, "", breakdown, policy, depth+1); err != nil {
		return "", err
	}
	b.WriteString(indent(depth))
	b.WriteString("};\n")
	return b.String(), nil
}

func sortedMethods(methods []*pdb.MethodInfo) []*pdb.MethodInfo {
	virtual := make([]*pdb.MethodInfo, 0)
	rest := make([]*pdb.MethodInfo, 0)
	for _, m := range methods {
		if m.IsVirtual {
			virtual = append(virtual, m)
		} else {
			rest = append(rest, m)
		}
	}
	for i := 0; i < len(virtual); i++ {
		for j := i + 1; j < len(virtual); j++ {
			if virtual[j].VTableSlot < virtual[i].VTableSlot {
				virtual[i], virtual[j] = virtual[j], virtual[i]
			}
		}
	}
	return append(virtual, rest...)
}

func (r *Renderer) renderField(f *pdb.Member, policy cxx.Policy) (string, error) {
	typ, err := r.types.ByIndex(f.Type)
	if err != nil {
		return "", err
	}

	var decl string
	if bf, ok := typ.(*pdb.BitfieldType); ok {
		underlying, err := r.typeName(bf.UnderlyingType(), policy)
		if err != nil {
			return "", err
		}
		decl = fmt.Sprintf("%s %s : %d;", underlying, f.Name, bf.Length())
	} else {
		name, err := r.typeName(f.Type, policy)
		if err != nil {
			return "", err
		}
		decl = fmt.Sprintf("%s;", declareVar(name, f.Name))
	}

	if f.IsStatic {
		decl = "static " + decl
	}
	if policy.PrintOffsetInfo && !f.IsStatic {
		decl += fmt.Sprintf(" // offset 0x%x", f.Offset)
	}
	return decl, nil
}

// declareVar splices a variable name into a C-style type spelling, placing
// it before any trailing array brackets (`int name[4]` rather than
// `int[4] name`).
func declareVar(typeSpelling, name string) string {
	if idx := strings.IndexByte(typeSpelling, '['); idx >= 0 {
		return typeSpelling[:idx] + " " + name + typeSpelling[idx:]
	}
	return typeSpelling + " " + name
}

// renderMethod renders one method declaration. owner is the enclosing
// composite's name, used to detect constructors (method name equals owner)
// and destructors (method name equals "~"+owner); spec.md §3 lists ctor/dtor
// as distinct method kinds, and neither ever carries a return type.
func (r *Renderer) renderMethod(owner string, m *pdb.MethodInfo, policy cxx.Policy) (string, error) {
	typ, err := r.types.ByIndex(m.Type)
	if err != nil {
		return "", err
	}

	isCtorOrDtor := owner != "" && (m.Name == owner || m.Name == "~"+owner)

	var ret, params string
	switch ft := typ.(type) {
	case *pdb.MemberFunctionType:
		if !isCtorOrDtor {
			ret, err = r.typeName(ft.ReturnType(), policy)
			if err != nil {
				return "", err
			}
		}
		params, err = r.paramList(ft.ArgumentList(), policy)
		if err != nil {
			return "", err
		}
	case *pdb.FunctionType:
		if !isCtorOrDtor {
			ret, err = r.typeName(ft.ReturnType(), policy)
			if err != nil {
				return "", err
			}
		}
		params, err = r.paramList(ft.ArgumentList(), policy)
		if err != nil {
			return "", err
		}
	default:
		if !isCtorOrDtor {
			ret = "void"
		}
		params = ""
	}

	prefix := ""
	if m.Kind == tpi.MethodKindStatic {
		prefix = "static "
	} else if m.IsVirtual {
		prefix = "virtual "
	}

	var decl string
	if ret == "" {
		decl = fmt.Sprintf("%s%s(%s);", prefix, m.Name, params)
	} else {
		decl = fmt.Sprintf("%s%s %s(%s);", prefix, ret, m.Name, params)
	}
	if m.IsPure {
		decl = strings.TrimSuffix(decl, ";") + " = 0;"
	}
	return decl, nil
}

// renderEnum renders an enum's underlying type and enumerator list.
func (r *Renderer) renderEnum(t *pdb.EnumType, policy cxx.Policy) (string, error) {
	var b strings.Builder

	underlying, err := r.typeName(t.UnderlyingType(), policy)
	if err != nil {
		return "", err
	}

	b.WriteString("enum ")
	b.WriteString(t.Name())
	b.WriteString(" : ")
	b.WriteString(underlying)
	b.WriteString(brace(0, policy))

	enumerators, err := r.types.GetEnumerators(t.FieldList())
	if err != nil {
		return "", err
	}
	for i, e := range enumerators {
		b.WriteString(indent(1))
		if policy.IntegersAsHexadecimal {
			b.WriteString(fmt.Sprintf("%s = 0x%x", e.Name, e.Value))
		} else {
			b.WriteString(fmt.Sprintf("%s = %d", e.Name, e.Value))
		}
		if i != len(enumerators)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	b.WriteString("};\n")
	return b.String(), nil
}
