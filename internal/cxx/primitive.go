// Package cxx renders PDB type information as C++ declaration text.
package cxx

import (
	"fmt"
	"strings"
)

// PrimitiveKind identifies one of the CodeView built-in primitive kinds,
// independent of the four rendering flavors below. Named after the original
// resym engine's pdb::PrimitiveKind variants.
type PrimitiveKind uint8

const (
	PrimitiveVoid PrimitiveKind = iota
	PrimitiveChar
	PrimitiveRChar
	PrimitiveUChar
	PrimitiveWChar
	PrimitiveRChar16
	PrimitiveRChar32
	PrimitiveChar8
	PrimitiveI8
	PrimitiveU8
	PrimitiveI16
	PrimitiveShort
	PrimitiveU16
	PrimitiveUShort
	PrimitiveI32
	PrimitiveLong
	PrimitiveU32
	PrimitiveULong
	PrimitiveI64
	PrimitiveQuad
	PrimitiveU64
	PrimitiveUQuad
	PrimitiveF32
	PrimitiveF64
	PrimitiveBool8
	PrimitiveBool32
	PrimitiveHRESULT
	PrimitiveNoType
	primitiveUnknown
)

// Flavor selects a spelling convention for primitive C++ types.
type Flavor uint8

const (
	FlavorPortable Flavor = iota
	FlavorMicrosoft
	FlavorRaw
	FlavorMsvc
)

// PrimitiveFlavorError is returned by ParseFlavor for unrecognized flavor text.
// Split from the access-specifier parser per the Open Question in the
// original's ParsePrimitiveFlavorError being reused for both kinds.
type PrimitiveFlavorError struct{ Text string }

func (e *PrimitiveFlavorError) Error() string {
	return fmt.Sprintf("cxx: unknown primitive flavor %q", e.Text)
}

// ParseFlavor parses a flavor name ("portable", "ms"/"msft"/"microsoft",
// "raw", "msvc"), case-insensitively.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(s) {
	case "portable":
		return FlavorPortable, nil
	case "ms", "msft", "microsoft":
		return FlavorMicrosoft, nil
	case "raw":
		return FlavorRaw, nil
	case "msvc":
		return FlavorMsvc, nil
	default:
		return 0, &PrimitiveFlavorError{Text: s}
	}
}

// NotImplementedError reports a primitive kind with no known spelling under
// the requested flavor. Callers may splice Placeholder() into rendered text
// and continue, matching the original engine's "degrade gracefully" policy.
type NotImplementedError struct {
	Kind PrimitiveKind
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("cxx: unhandled primitive kind: %d", e.Kind)
}

// Placeholder returns the FIXME comment text the renderer substitutes when a
// primitive kind has no spelling under the current flavor.
func (e *NotImplementedError) Placeholder() string {
	return fmt.Sprintf("/* FIXME: Unhandled primitive kind: %d */ void", e.Kind)
}

// FormatPrimitive returns the C++ spelling of kind under flavor, with pointer
// indirection applied when indirection is true: a trailing `*` in general,
// or the SDK's `P`-prefixed typedef (PVOID, PLONG, ...) under FlavorMicrosoft
// where one exists. NoType always renders as "..." regardless of indirection.
func FormatPrimitive(flavor Flavor, kind PrimitiveKind, indirection bool) (string, error) {
	switch flavor {
	case FlavorPortable:
		return formatPortable(kind, indirection)
	case FlavorMicrosoft:
		return formatMicrosoft(kind, indirection)
	case FlavorRaw:
		return formatRaw(kind, indirection)
	case FlavorMsvc:
		return formatMsvc(kind, indirection)
	default:
		return "", &PrimitiveFlavorError{Text: fmt.Sprintf("flavor(%d)", flavor)}
	}
}

func withStar(s string, indirection bool) string {
	if indirection {
		return s + "*"
	}
	return s
}

func formatPortable(kind PrimitiveKind, indirection bool) (string, error) {
	var s string
	switch kind {
	case PrimitiveVoid:
		s = "void"
	case PrimitiveChar, PrimitiveRChar:
		s = "char"
	case PrimitiveUChar:
		s = "unsigned char"
	case PrimitiveWChar:
		s = "wchar_t"
	case PrimitiveRChar16:
		s = "char16_t"
	case PrimitiveRChar32:
		s = "char32_t"
	case PrimitiveChar8:
		s = "char8_t"
	case PrimitiveI8:
		s = "int8_t"
	case PrimitiveU8:
		s = "uint8_t"
	case PrimitiveI16, PrimitiveShort:
		s = "int16_t"
	case PrimitiveU16, PrimitiveUShort:
		s = "uint16_t"
	case PrimitiveI32, PrimitiveLong:
		s = "int32_t"
	case PrimitiveU32, PrimitiveULong:
		s = "uint32_t"
	case PrimitiveI64, PrimitiveQuad:
		s = "int64_t"
	case PrimitiveU64, PrimitiveUQuad:
		s = "uint64_t"
	case PrimitiveF32:
		s = "float"
	case PrimitiveF64:
		s = "double"
	case PrimitiveBool8:
		s = "bool"
	case PrimitiveBool32:
		s = "int32_t"
	case PrimitiveHRESULT:
		s = "int32_t"
	case PrimitiveNoType:
		return "...", nil
	default:
		return "", &NotImplementedError{Kind: kind}
	}
	return withStar(s, indirection), nil
}

func formatMicrosoft(kind PrimitiveKind, indirection bool) (string, error) {
	pick := func(ptr, val string) string {
		if indirection {
			return ptr
		}
		return val
	}
	switch kind {
	case PrimitiveVoid:
		return pick("PVOID", "VOID"), nil
	case PrimitiveChar, PrimitiveRChar, PrimitiveI8:
		return pick("PCHAR", "CHAR"), nil
	case PrimitiveUChar, PrimitiveU8:
		return pick("PUCHAR", "UCHAR"), nil
	case PrimitiveWChar:
		return pick("PWCHAR", "WCHAR"), nil
	case PrimitiveRChar16:
		return withStar("char16_t", indirection), nil
	case PrimitiveRChar32:
		return withStar("char32_t", indirection), nil
	case PrimitiveChar8:
		return withStar("char8_t", indirection), nil
	case PrimitiveI16, PrimitiveShort:
		return pick("PSHORT", "SHORT"), nil
	case PrimitiveU16, PrimitiveUShort:
		return pick("PUSHORT", "USHORT"), nil
	case PrimitiveI32, PrimitiveLong:
		return pick("PLONG", "LONG"), nil
	case PrimitiveU32, PrimitiveULong:
		return pick("PULONG", "ULONG"), nil
	case PrimitiveI64, PrimitiveQuad:
		return pick("PLONGLONG", "LONGLONG"), nil
	case PrimitiveU64, PrimitiveUQuad:
		return pick("PULONGLONG", "ULONGLONG"), nil
	case PrimitiveF32:
		return pick("PFLOAT", "FLOAT"), nil
	case PrimitiveF64:
		return withStar("DOUBLE", indirection), nil
	case PrimitiveBool8:
		return pick("PBOOLEAN", "BOOLEAN"), nil
	case PrimitiveBool32:
		return pick("PBOOL", "BOOL"), nil
	case PrimitiveHRESULT:
		return withStar("HRESULT", indirection), nil
	case PrimitiveNoType:
		return "...", nil
	default:
		return "", &NotImplementedError{Kind: kind}
	}
}

func formatRaw(kind PrimitiveKind, indirection bool) (string, error) {
	var s string
	switch kind {
	case PrimitiveVoid:
		s = "void"
	case PrimitiveI8, PrimitiveChar, PrimitiveRChar:
		s = "char"
	case PrimitiveU8, PrimitiveUChar:
		s = "unsigned char"
	case PrimitiveWChar:
		s = "wchar_t"
	case PrimitiveRChar16:
		s = "char16_t"
	case PrimitiveRChar32:
		s = "char32_t"
	case PrimitiveChar8:
		s = "char8_t"
	case PrimitiveI16, PrimitiveShort:
		s = "short"
	case PrimitiveU16, PrimitiveUShort:
		s = "unsigned short"
	case PrimitiveI32, PrimitiveLong:
		s = "int"
	case PrimitiveU32, PrimitiveULong:
		s = "unsigned int"
	case PrimitiveI64, PrimitiveQuad:
		s = "long long int"
	case PrimitiveU64, PrimitiveUQuad:
		s = "unsigned long long int"
	case PrimitiveF32:
		s = "float"
	case PrimitiveF64:
		s = "double"
	case PrimitiveBool8:
		s = "bool"
	case PrimitiveBool32:
		s = "long"
	case PrimitiveHRESULT:
		s = "long"
	case PrimitiveNoType:
		return "...", nil
	default:
		return "", &NotImplementedError{Kind: kind}
	}
	return withStar(s, indirection), nil
}

func formatMsvc(kind PrimitiveKind, indirection bool) (string, error) {
	var s string
	switch kind {
	case PrimitiveVoid:
		s = "void"
	case PrimitiveChar, PrimitiveRChar:
		s = "char"
	case PrimitiveUChar:
		s = "unsigned char"
	case PrimitiveWChar:
		s = "wchar_t"
	case PrimitiveRChar16:
		s = "char16_t"
	case PrimitiveRChar32:
		s = "char32_t"
	case PrimitiveChar8:
		s = "char8_t"
	case PrimitiveI8:
		s = "__int8"
	case PrimitiveU8:
		s = "unsigned __int8"
	case PrimitiveI16:
		s = "__int16"
	case PrimitiveU16:
		s = "unsigned __int16"
	case PrimitiveI32:
		s = "int"
	case PrimitiveU32:
		s = "unsigned int"
	case PrimitiveI64:
		s = "__int64"
	case PrimitiveU64:
		s = "unsigned __int64"
	case PrimitiveShort:
		s = "short"
	case PrimitiveUShort:
		s = "unsigned short"
	case PrimitiveLong:
		s = "long"
	case PrimitiveULong:
		s = "unsigned long"
	case PrimitiveQuad:
		s = "long long"
	case PrimitiveUQuad:
		s = "unsigned long long"
	case PrimitiveF32:
		s = "float"
	case PrimitiveF64:
		s = "double"
	case PrimitiveBool8:
		s = "bool"
	case PrimitiveBool32:
		s = "long"
	case PrimitiveHRESULT:
		s = "long"
	case PrimitiveNoType:
		return "...", nil
	default:
		return "", &NotImplementedError{Kind: kind}
	}
	return withStar(s, indirection), nil
}

// IncludeHeadersForFlavor returns the #include block a rendered translation
// unit should be prefixed with for the given flavor and std-elision setting.
// Ported from resym_core's include_headers_for_flavor.
func IncludeHeadersForFlavor(flavor Flavor, ignoreStdTypes bool) string {
	var b strings.Builder
	switch flavor {
	case FlavorPortable:
		b.WriteString("#include <cstdint>\n")
	case FlavorMicrosoft:
		b.WriteString("#include <Windows.h>\n")
	}
	if ignoreStdTypes {
		for _, h := range []string{"array", "list", "map", "memory", "string", "unordered_map", "utility", "vector"} {
			b.WriteString("#include <")
			b.WriteString(h)
			b.WriteString(">\n")
		}
	}
	return b.String()
}
