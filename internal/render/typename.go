package render

import (
	"fmt"
	"strings"

	"github.com/resym-go/resymgo/internal/cxx"
	"github.com/resym-go/resymgo/internal/tpi"
	"github.com/resym-go/resymgo/pdb"
)

// primitiveKindOf maps a PDB simple-type kind to the flavor-neutral
// cxx.PrimitiveKind the formatter switches on.
func primitiveKindOf(kind tpi.SimpleTypeKind) cxx.PrimitiveKind {
	switch kind {
	case tpi.SimpleTypeVoid:
		return cxx.PrimitiveVoid
	case tpi.SimpleTypeSignedChar:
		return cxx.PrimitiveI8
	case tpi.SimpleTypeUnsignedChar:
		return cxx.PrimitiveU8
	case tpi.SimpleTypeNarrowChar:
		return cxx.PrimitiveChar
	case tpi.SimpleTypeWideChar:
		return cxx.PrimitiveWChar
	case tpi.SimpleTypeChar16:
		return cxx.PrimitiveRChar16
	case tpi.SimpleTypeChar32:
		return cxx.PrimitiveRChar32
	case tpi.SimpleTypeChar8:
		return cxx.PrimitiveChar8
	case tpi.SimpleTypeSByte:
		return cxx.PrimitiveI8
	case tpi.SimpleTypeByte:
		return cxx.PrimitiveU8
	case tpi.SimpleTypeInt16Short:
		return cxx.PrimitiveShort
	case tpi.SimpleTypeInt16:
		return cxx.PrimitiveI16
	case tpi.SimpleTypeUInt16Short:
		return cxx.PrimitiveUShort
	case tpi.SimpleTypeUInt16:
		return cxx.PrimitiveU16
	case tpi.SimpleTypeInt32Long:
		return cxx.PrimitiveLong
	case tpi.SimpleTypeUInt32Long:
		return cxx.PrimitiveULong
	case tpi.SimpleTypeInt32:
		return cxx.PrimitiveI32
	case tpi.SimpleTypeUInt32:
		return cxx.PrimitiveU32
	case tpi.SimpleTypeInt64Quad:
		return cxx.PrimitiveQuad
	case tpi.SimpleTypeInt64:
		return cxx.PrimitiveI64
	case tpi.SimpleTypeUInt64Quad:
		return cxx.PrimitiveUQuad
	case tpi.SimpleTypeUInt64:
		return cxx.PrimitiveU64
	case tpi.SimpleTypeFloat32:
		return cxx.PrimitiveF32
	case tpi.SimpleTypeFloat64:
		return cxx.PrimitiveF64
	case tpi.SimpleTypeBool8:
		return cxx.PrimitiveBool8
	case tpi.SimpleTypeBool32:
		return cxx.PrimitiveBool32
	case tpi.SimpleTypeHResult:
		return cxx.PrimitiveHRESULT
	default:
		return cxx.PrimitiveNoType
	}
}

// typeName returns the C++ spelling used to reference ti inline (as a field
// type, return type, parameter type, …) under policy. It does not emit a
// full definition; composites are referenced purely by name here.
func (r *Renderer) typeName(ti pdb.TypeIndex, policy cxx.Policy) (string, error) {
	typ, err := r.types.ByIndex(ti)
	if err != nil {
		return "", err
	}

	switch t := typ.(type) {
	case *pdb.PrimitiveType:
		kind := primitiveKindOf(t.SimpleKind())
		s, ferr := cxx.FormatPrimitive(policy.PrimitiveFlavor, kind, t.IsPointer())
		if ferr != nil {
			if nie, ok := ferr.(*cxx.NotImplementedError); ok {
				return nie.Placeholder(), nil
			}
			return "", ferr
		}
		return s, nil

	case *pdb.PointerType:
		inner, err := r.typeName(t.ReferentType(), policy)
		if err != nil {
			return "", err
		}
		star := "*"
		if t.IsReference() {
			star = "&"
		} else if t.IsRValueRef() {
			star = "&&"
		}
		qual := ""
		if t.IsConst() {
			qual += " const"
		}
		if t.IsVolatile() {
			qual += " volatile"
		}
		return fmt.Sprintf("%s%s%s", inner, qual, star), nil

	case *pdb.ModifierType:
		inner, err := r.typeName(t.ModifiedType(), policy)
		if err != nil {
			return "", err
		}
		prefix := ""
		if t.IsConst() {
			prefix += "const "
		}
		if t.IsVolatile() {
			prefix += "volatile "
		}
		return prefix + inner, nil

	case *pdb.ArrayType:
		elem, err := r.typeName(t.ElementType(), policy)
		if err != nil {
			return "", err
		}
		count, elemSize, cerr := r.arrayElementCount(t)
		if cerr == nil && elemSize > 0 {
			return fmt.Sprintf("%s[%d]", elem, count), nil
		}
		return fmt.Sprintf("%s[]", elem), nil

	case *pdb.BitfieldType:
		return r.typeName(t.UnderlyingType(), policy)

	case *pdb.EnumType:
		return t.Name(), nil

	case *pdb.ClassType:
		return t.Name(), nil

	case *pdb.StructType:
		return t.Name(), nil

	case *pdb.UnionType:
		return t.Name(), nil

	case *pdb.FunctionType:
		ret, err := r.typeName(t.ReturnType(), policy)
		if err != nil {
			return "", err
		}
		params, err := r.paramList(t.ArgumentList(), policy)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (%s)(%s)", ret, t.CallingConvention(), params), nil

	default:
		name := typ.Name()
		if name == "" {
			return "void", nil
		}
		return name, nil
	}
}

// arrayElementCount derives the element count of an array from its total
// byte size and the element type's size, per spec.md §3's Array definition.
func (r *Renderer) arrayElementCount(t *pdb.ArrayType) (count int, elemSize uint64, err error) {
	elemType, err := r.types.ByIndex(t.ElementType())
	if err != nil {
		return 0, 0, err
	}
	elemSize = elemType.Size()
	if elemSize == 0 {
		return 0, 0, fmt.Errorf("render: array element has unknown size")
	}
	return int(t.Size() / elemSize), elemSize, nil
}

// paramList renders an LF_ARGLIST as a comma-separated parameter list.
// Unnamed parameters render as typed positional parameters only
// (spec.md §4.5).
func (r *Renderer) paramList(argList pdb.TypeIndex, policy cxx.Policy) (string, error) {
	types, err := r.types.GetArgListTypes(argList)
	if err != nil {
		return "", err
	}
	if len(types) == 0 {
		return "void", nil
	}
	parts := make([]string, 0, len(types))
	for _, ti := range types {
		name, err := r.typeName(ti, policy)
		if err != nil {
			return "", err
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", "), nil
}
