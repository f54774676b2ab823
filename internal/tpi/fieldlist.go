package tpi

import (
	"fmt"

	"github.com/resym-go/resymgo/internal/stream"
)

// methodKindOf derives a method's kind from its property bits. The
// teacher's MethodProperties models IsIntro/IsPure as independent flags
// rather than CodeView's packed 3-bit mprop field, so the kind is
// reconstructed here rather than read directly. Only MethodKindVanilla,
// MethodKindIntroVirtual, MethodKindPureVirtual and MethodKindPureIntro are
// returned; MethodKindVirtual, MethodKindStatic and MethodKindFriend never are.
func methodKindOf(props MethodProperties) MethodKind {
	switch {
	case props.IsPure() && props.IsIntro():
		return MethodKindPureIntro
	case props.IsPure():
		return MethodKindPureVirtual
	case props.IsIntro():
		return MethodKindIntroVirtual
	default:
		return MethodKindVanilla
	}
}

// FieldListMember is the common interface implemented by every record that
// can appear inside an LF_FIELDLIST: LF_MEMBER, LF_STMEMBER, LF_BCLASS,
// LF_VBCLASS, LF_IVBCLASS, LF_METHOD, LF_ONEMETHOD, LF_ENUMERATE,
// LF_NESTTYPE and LF_VFUNCTAB.
type FieldListMember interface {
	fieldListMember()
}

// MemberRecord is an LF_MEMBER: a non-static data member.
type MemberRecord struct {
	Access MemberAccess
	Type   TypeIndex
	Offset uint64
	Name   string
}

func (*MemberRecord) fieldListMember() {}

// StaticMemberRecord is an LF_STMEMBER: a static data member.
type StaticMemberRecord struct {
	Access MemberAccess
	Type   TypeIndex
	Name   string
}

func (*StaticMemberRecord) fieldListMember() {}

// BaseClassRecord is an LF_BCLASS: a non-virtual base class.
type BaseClassRecord struct {
	Access MemberAccess
	Type   TypeIndex
	Offset uint64
}

func (*BaseClassRecord) fieldListMember() {}

// VirtualBaseClassRecord is an LF_VBCLASS/LF_IVBCLASS: a (possibly indirect)
// virtual base class.
type VirtualBaseClassRecord struct {
	Access          MemberAccess
	BaseType        TypeIndex
	VBPtrType       TypeIndex
	VBPtrOffset     uint64
	VBTableIndex    uint64
	IsIndirect      bool
}

func (*VirtualBaseClassRecord) fieldListMember() {}

// OneMethodRecord is an LF_ONEMETHOD: a single overload of a method.
type OneMethodRecord struct {
	Access      MemberAccess
	Kind        MethodKind
	IsIntro     bool
	Type        TypeIndex
	VTableSlot  uint32
	Name        string
}

func (*OneMethodRecord) fieldListMember() {}

// MethodOverload is one entry of an LF_METHOD's overload list (resolved via
// the MethodList stream when present).
type MethodOverload struct {
	Access     MemberAccess
	Kind       MethodKind
	IsIntro    bool
	Type       TypeIndex
	VTableSlot uint32
}

// MethodRecord is an LF_METHOD: an overload set sharing one name.
type MethodRecord struct {
	Count      uint16
	MethodList TypeIndex
	Name       string
}

func (*MethodRecord) fieldListMember() {}

// NestedTypeRecord is an LF_NESTTYPE: a nested typedef/class/enum declaration.
type NestedTypeRecord struct {
	Type TypeIndex
	Name string
}

func (*NestedTypeRecord) fieldListMember() {}

// EnumerateRecord is an LF_ENUMERATE: one (name, value) pair of an enum.
type EnumerateRecord struct {
	Access MemberAccess
	Value  uint64
	Name   string
}

func (*EnumerateRecord) fieldListMember() {}

// VFuncTabRecord is an LF_VFUNCTAB: the vtable pointer member itself.
type VFuncTabRecord struct {
	Type TypeIndex
}

func (*VFuncTabRecord) fieldListMember() {}

// FieldListRecord is the parsed form of an LF_FIELDLIST record: a flat,
// order-preserving sequence of the members above. Order matters: it drives
// vtable-slot numbering for virtual methods and stable member layout.
type FieldListRecord struct {
	Members []FieldListMember
}

// ParseFieldListRecord parses an LF_FIELDLIST record. Field lists are a
// concatenation of sub-records with no overall count; each sub-record is
// read until the data is exhausted, and each is padded to 4-byte alignment
// with LF_PAD0..LF_PAD15 bytes the same way top-level type records are.
func ParseFieldListRecord(data []byte) (*FieldListRecord, error) {
	r := stream.NewReader(data)
	fl := &FieldListRecord{}

	for r.Remaining() > 0 {
		// Skip alignment padding between sub-records.
		b, err := r.PeekU8()
		if err != nil {
			break
		}
		if TypeRecordKind(b).IsPadding() {
			if _, err := r.ReadU8(); err != nil {
				break
			}
			continue
		}

		kind, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("tpi: truncated field list: %w", err)
		}

		member, err := parseFieldListMember(TypeRecordKind(kind), r)
		if err != nil {
			return nil, fmt.Errorf("tpi: field list member 0x%04x: %w", kind, err)
		}
		if member != nil {
			fl.Members = append(fl.Members, member)
		}

		// Consume trailing per-record alignment padding (LF_PAD1..LF_PAD15).
		for r.Remaining() > 0 {
			pb, err := r.PeekU8()
			if err != nil {
				break
			}
			if !TypeRecordKind(pb).IsPadding() {
				break
			}
			if _, err := r.ReadU8(); err != nil {
				break
			}
		}
	}

	return fl, nil
}

func parseFieldListMember(kind TypeRecordKind, r *stream.Reader) (FieldListMember, error) {
	switch kind {
	case LF_MEMBER, LF_MEMBER_ST:
		access, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		typ, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		offset, err := r.ReadNumeric()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		return &MemberRecord{
			Access: MemberAccess(access & 0x3),
			Type:   TypeIndex(typ),
			Offset: offset,
			Name:   name,
		}, nil

	case LF_STMEMBER, LF_STMEMBER_ST:
		access, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		typ, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		return &StaticMemberRecord{
			Access: MemberAccess(access & 0x3),
			Type:   TypeIndex(typ),
			Name:   name,
		}, nil

	case LF_BCLASS:
		access, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		typ, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		offset, err := r.ReadNumeric()
		if err != nil {
			return nil, err
		}
		return &BaseClassRecord{
			Access: MemberAccess(access & 0x3),
			Type:   TypeIndex(typ),
			Offset: offset,
		}, nil

	case LF_VBCLASS, LF_IVBCLASS:
		access, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		baseType, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		vbptrType, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		vbptrOffset, err := r.ReadNumeric()
		if err != nil {
			return nil, err
		}
		vbTableIndex, err := r.ReadNumeric()
		if err != nil {
			return nil, err
		}
		return &VirtualBaseClassRecord{
			Access:       MemberAccess(access & 0x3),
			BaseType:     TypeIndex(baseType),
			VBPtrType:    TypeIndex(vbptrType),
			VBPtrOffset:  vbptrOffset,
			VBTableIndex: vbTableIndex,
			IsIndirect:   kind == LF_IVBCLASS,
		}, nil

	case LF_VFUNCTAB:
		if _, err := r.ReadU16(); err != nil { // pad/reserved
			return nil, err
		}
		typ, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return &VFuncTabRecord{Type: TypeIndex(typ)}, nil

	case LF_ONEMETHOD, LF_ONEMETHOD_ST:
		attrs, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		typ, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		props := MethodProperties(attrs)
		rec := &OneMethodRecord{
			Access:  MemberAccess(props.Access()),
			Kind:    methodKindOf(props),
			IsIntro: props.IsIntro(),
			Type:    TypeIndex(typ),
		}
		if rec.Kind == MethodKindIntroVirtual || rec.Kind == MethodKindPureIntro {
			slot, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			rec.VTableSlot = slot
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		rec.Name = name
		return rec, nil

	case LF_METHOD, LF_METHOD_ST:
		count, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		methodList, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		return &MethodRecord{
			Count:      count,
			MethodList: TypeIndex(methodList),
			Name:       name,
		}, nil

	case LF_NESTTYPE, LF_NESTTYPE_ST:
		if _, err := r.ReadU16(); err != nil { // pad/reserved
			return nil, err
		}
		typ, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		return &NestedTypeRecord{Type: TypeIndex(typ), Name: name}, nil

	case LF_ENUMERATE, LF_ENUMERATE_ST:
		access, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		value, err := r.ReadNumeric()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		return &EnumerateRecord{
			Access: MemberAccess(access & 0x3),
			Value:  value,
			Name:   name,
		}, nil

	case LF_INDEX:
		// LF_INDEX chains a field list record to a continuation record; the
		// resolver follows it via the TPI stream rather than inline here.
		if _, err := r.ReadU16(); err != nil { // pad/reserved
			return nil, err
		}
		if _, err := r.ReadU32(); err != nil { // continuation type index
			return nil, err
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unhandled field list member kind 0x%04x", ErrInvalidTypeRecord, kind)
	}
}

// ParseMethodListRecord parses an LF_METHODLIST record (the auxiliary record an
// LF_METHOD with more than one overload points at via MethodList).
func ParseMethodListRecord(data []byte) ([]MethodOverload, error) {
	r := stream.NewReader(data)
	var overloads []MethodOverload

	for r.Remaining() > 0 {
		attrs, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		if _, err := r.ReadU16(); err != nil { // padding
			return nil, err
		}
		typ, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		props := MethodProperties(attrs)
		overload := MethodOverload{
			Access:  MemberAccess(props.Access()),
			Kind:    methodKindOf(props),
			IsIntro: props.IsIntro(),
			Type:    TypeIndex(typ),
		}
		if overload.Kind == MethodKindIntroVirtual || overload.Kind == MethodKindPureIntro {
			slot, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			overload.VTableSlot = slot
		}
		overloads = append(overloads, overload)
	}

	return overloads, nil
}
