package tpi

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func TestParseFieldListRecordMember(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u16le(uint16(LF_MEMBER)))
	buf.Write(u16le(uint16(MemberAccessPublic)))
	buf.Write(u32le(0x1002)) // type index
	buf.Write(u16le(0x0008)) // offset, encoded as plain numeric < 0x8000
	buf.Write(cstr("m_value"))

	fl, err := ParseFieldListRecord(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseFieldListRecord: %v", err)
	}
	if len(fl.Members) != 1 {
		t.Fatalf("got %d members, want 1", len(fl.Members))
	}
	m, ok := fl.Members[0].(*MemberRecord)
	if !ok {
		t.Fatalf("member is %T, want *MemberRecord", fl.Members[0])
	}
	if m.Name != "m_value" || m.Type != 0x1002 || m.Offset != 8 || m.Access != MemberAccessPublic {
		t.Errorf("got %+v", m)
	}
}

func TestParseFieldListRecordBaseClass(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u16le(uint16(LF_BCLASS)))
	buf.Write(u16le(uint16(MemberAccessPublic)))
	buf.Write(u32le(0x1005))
	buf.Write(u16le(0x0000))

	fl, err := ParseFieldListRecord(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseFieldListRecord: %v", err)
	}
	if len(fl.Members) != 1 {
		t.Fatalf("got %d members, want 1", len(fl.Members))
	}
	b, ok := fl.Members[0].(*BaseClassRecord)
	if !ok {
		t.Fatalf("member is %T, want *BaseClassRecord", fl.Members[0])
	}
	if b.Type != 0x1005 || b.Offset != 0 || b.Access != MemberAccessPublic {
		t.Errorf("got %+v", b)
	}
}

func TestParseFieldListRecordEnumerate(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u16le(uint16(LF_ENUMERATE)))
	buf.Write(u16le(uint16(MemberAccessPublic)))
	buf.Write(u16le(2)) // value, plain numeric
	buf.Write(cstr("Green"))

	fl, err := ParseFieldListRecord(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseFieldListRecord: %v", err)
	}
	e, ok := fl.Members[0].(*EnumerateRecord)
	if !ok {
		t.Fatalf("member is %T, want *EnumerateRecord", fl.Members[0])
	}
	if e.Name != "Green" || e.Value != 2 {
		t.Errorf("got %+v", e)
	}
}

func TestParseFieldListRecordMultipleMembersWithPadding(t *testing.T) {
	var buf bytes.Buffer

	buf.Write(u16le(uint16(LF_MEMBER)))
	buf.Write(u16le(uint16(MemberAccessPrivate)))
	buf.Write(u32le(0x0074)) // int
	buf.Write(u16le(0))
	buf.Write(cstr("a"))
	// One pad byte (LF_PAD1) after the 12-byte record, which the parser
	// must skip before the next sub-record.
	buf.WriteByte(byte(LF_PAD1))

	buf.Write(u16le(uint16(LF_MEMBER)))
	buf.Write(u16le(uint16(MemberAccessPrivate)))
	buf.Write(u32le(0x0074))
	buf.Write(u16le(4))
	buf.Write(cstr("b"))

	fl, err := ParseFieldListRecord(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseFieldListRecord: %v", err)
	}
	if len(fl.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(fl.Members))
	}
	first := fl.Members[0].(*MemberRecord)
	second := fl.Members[1].(*MemberRecord)
	if first.Name != "a" || second.Name != "b" || second.Offset != 4 {
		t.Errorf("got %+v, %+v", first, second)
	}
}

func TestParseFieldListRecordOneMethodIntroVirtual(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u16le(uint16(LF_ONEMETHOD)))
	attrs := uint16(MemberAccessPublic) | 0x04 // IsIntro bit set
	buf.Write(u16le(attrs))
	buf.Write(u32le(0x2001)) // method type index
	buf.Write(u32le(0))      // vtable slot
	buf.Write(cstr("Speak"))

	fl, err := ParseFieldListRecord(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseFieldListRecord: %v", err)
	}
	m, ok := fl.Members[0].(*OneMethodRecord)
	if !ok {
		t.Fatalf("member is %T, want *OneMethodRecord", fl.Members[0])
	}
	if m.Name != "Speak" || m.Kind != MethodKindIntroVirtual || m.VTableSlot != 0 || !m.IsIntro {
		t.Errorf("got %+v", m)
	}
}

func TestParseFieldListRecordMethodOverloadSet(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u16le(uint16(LF_METHOD)))
	buf.Write(u16le(3))       // overload count
	buf.Write(u32le(0x3001)) // method list type index
	buf.Write(cstr("Overloaded"))

	fl, err := ParseFieldListRecord(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseFieldListRecord: %v", err)
	}
	m, ok := fl.Members[0].(*MethodRecord)
	if !ok {
		t.Fatalf("member is %T, want *MethodRecord", fl.Members[0])
	}
	if m.Name != "Overloaded" || m.Count != 3 || m.MethodList != 0x3001 {
		t.Errorf("got %+v", m)
	}
}

func TestParseFieldListRecordUnhandledKind(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u16le(0x9999)) // not a real leaf kind, and not padding
	if _, err := ParseFieldListRecord(buf.Bytes()); err == nil {
		t.Fatal("expected an error for an unhandled field list member kind")
	}
}

func TestParseMethodListRecordVanillaAndPureIntro(t *testing.T) {
	var buf bytes.Buffer

	// First overload: vanilla, no vtable slot.
	buf.Write(u16le(uint16(MemberAccessPublic)))
	buf.Write(u16le(0)) // padding
	buf.Write(u32le(0x2010))

	// Second overload: pure + intro, carries a vtable slot.
	attrs := uint16(MemberAccessPublic) | 0x04 | 0x08
	buf.Write(u16le(attrs))
	buf.Write(u16le(0))
	buf.Write(u32le(0x2011))
	buf.Write(u32le(2))

	overloads, err := ParseMethodListRecord(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseMethodListRecord: %v", err)
	}
	if len(overloads) != 2 {
		t.Fatalf("got %d overloads, want 2", len(overloads))
	}
	if overloads[0].Kind != MethodKindVanilla || overloads[0].VTableSlot != 0 {
		t.Errorf("overload 0: %+v", overloads[0])
	}
	if overloads[1].Kind != MethodKindPureIntro || overloads[1].VTableSlot != 2 {
		t.Errorf("overload 1: %+v", overloads[1])
	}
}
