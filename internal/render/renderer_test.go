package render

import (
	"strings"
	"testing"

	"github.com/resym-go/resymgo/internal/cxx"
	"github.com/resym-go/resymgo/internal/tpi"
	"github.com/resym-go/resymgo/pdb"
)

func TestDeclareVar(t *testing.T) {
	cases := []struct {
		typeSpelling string
		name         string
		want         string
	}{
		{"int", "count", "int count"},
		{"char[4]", "tag", "char tag[4]"},
		{"uint8_t*", "p", "uint8_t* p"},
	}

	for _, c := range cases {
		if got := declareVar(c.typeSpelling, c.name); got != c.want {
			t.Errorf("declareVar(%q, %q) = %q, want %q", c.typeSpelling, c.name, got, c.want)
		}
	}
}

func TestDefaultAccess(t *testing.T) {
	if got := defaultAccess("class"); got != "private" {
		t.Errorf("defaultAccess(class) = %q, want private", got)
	}
	if got := defaultAccess("struct"); got != "public" {
		t.Errorf("defaultAccess(struct) = %q, want public", got)
	}
}

func TestBrace(t *testing.T) {
	policy := cxx.DefaultPolicy()
	policy.Brackets = cxx.BracketSameLine
	if got := brace(0, policy); got != " {\n" {
		t.Errorf("brace same-line = %q", got)
	}

	policy.Brackets = cxx.BracketNewLine
	if got := brace(0, policy); !strings.HasPrefix(got, "\n") {
		t.Errorf("brace new-line should start with newline, got %q", got)
	}
}

func TestHeaderBanner(t *testing.T) {
	banner := headerBanner(0x1234)
	if !strings.Contains(banner, "0x1234") {
		t.Errorf("headerBanner should mention type index, got %q", banner)
	}
}

const tInt4 = 0x0074

// TestRenderAnonymousUnionInlinesMembers covers a struct whose field list
// has a direct LF_MEMBER referencing an anonymously-named union, the more
// common real-world PDB encoding of a C source's unnamed nested union. It
// must be inlined as a nested `union { ... };` body, not a dead
// cross-reference comment.
func TestRenderAnonymousUnionInlinesMembers(t *testing.T) {
	const unionIdx = 0x1000
	const unionFieldListIdx = 0x1001
	const outerIdx = 0x1002
	const outerFieldListIdx = 0x1003

	records := [][]byte{
		typeRecord(tpi.LF_UNION, unionRecordBytes("<unnamed-tag>", unionFieldListIdx, 4)),
		typeRecord(tpi.LF_FIELDLIST, fieldListData(
			memberBytes(tpi.MemberAccessPublic, tInt4, 0, "x"),
			memberBytes(tpi.MemberAccessPublic, tInt4, 0, "y"),
		)),
		typeRecord(tpi.LF_STRUCTURE, structRecordBytes("Outer", outerFieldListIdx, 0, 4)),
		typeRecord(tpi.LF_FIELDLIST, fieldListData(
			memberBytes(tpi.MemberAccessPublic, unionIdx, 0, ""),
		)),
	}
	types := buildTypeTable(t, records)
	r := New(types)

	out, err := r.RenderType(pdb.TypeIndex(outerIdx), cxx.DefaultPolicy())
	if err != nil {
		t.Fatalf("RenderType: %v", err)
	}
	if !strings.Contains(out, "union {") {
		t.Errorf("expected an inlined anonymous union body, got:\n%s", out)
	}
	if !strings.Contains(out, "int32_t x;") || !strings.Contains(out, "int32_t y;") {
		t.Errorf("expected both union members rendered inline, got:\n%s", out)
	}
	if strings.Contains(out, "// nested type") {
		t.Errorf("anonymous composite should not fall back to a dead cross-reference comment, got:\n%s", out)
	}
}

// TestRenderBaseListResolvesRealName covers renderBaseList resolving a base
// class's actual name through typeName rather than inventing a placeholder.
func TestRenderBaseListResolvesRealName(t *testing.T) {
	const baseIdx = 0x1000
	const derivedIdx = 0x1001
	const derivedFieldListIdx = 0x1002

	records := [][]byte{
		typeRecord(tpi.LF_STRUCTURE, structRecordBytes("Base", 0, 0, 4)),
		typeRecord(tpi.LF_STRUCTURE, structRecordBytes("Derived", derivedFieldListIdx, 0, 8)),
		typeRecord(tpi.LF_FIELDLIST, fieldListData(
			bclassBytes(tpi.MemberAccessPublic, baseIdx, 0),
		)),
	}
	types := buildTypeTable(t, records)
	r := New(types)

	out, err := r.RenderType(pdb.TypeIndex(derivedIdx), cxx.DefaultPolicy())
	if err != nil {
		t.Fatalf("RenderType: %v", err)
	}
	if !strings.Contains(out, "struct Derived : public Base {") {
		t.Errorf("expected the real base name \"Base\" in the base list, got:\n%s", out)
	}
}

// TestRenderConstructorAndDestructorSuppressReturnType covers renderMethod
// detecting a constructor/destructor by comparing the method name against
// the owning composite's name, and omitting the return type for both.
func TestRenderConstructorAndDestructorSuppressReturnType(t *testing.T) {
	const fooIdx = 0x1000
	const argListIdx = 0x1001
	const ctorTypeIdx = 0x1002
	const fieldListIdx = 0x1003

	records := [][]byte{
		typeRecord(tpi.LF_STRUCTURE, structRecordBytes("Foo", fieldListIdx, 0, 4)),
		typeRecord(tpi.LF_ARGLIST, argListRecordBytes()),
		typeRecord(tpi.LF_MFUNCTION, mfunctionRecordBytes(0x0003, fooIdx, argListIdx)),
		typeRecord(tpi.LF_FIELDLIST, fieldListData(
			oneMethodBytes(tpi.MemberAccessPublic, ctorTypeIdx, "Foo"),
			oneMethodBytes(tpi.MemberAccessPublic, ctorTypeIdx, "~Foo"),
		)),
	}
	types := buildTypeTable(t, records)
	r := New(types)

	out, err := r.RenderType(pdb.TypeIndex(fooIdx), cxx.DefaultPolicy())
	if err != nil {
		t.Fatalf("RenderType: %v", err)
	}
	if !strings.Contains(out, "Foo(void);") {
		t.Errorf("expected a return-type-free constructor declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "~Foo(void);") {
		t.Errorf("expected a return-type-free destructor declaration, got:\n%s", out)
	}
	if strings.Contains(out, "void Foo(void)") || strings.Contains(out, "void ~Foo(void)") {
		t.Errorf("constructor/destructor must not carry the void return type, got:\n%s", out)
	}
}

// TestRenderFieldPointerToEnum covers a plain field typed as a pointer to an
// enum, verifying typeName spells it "Color*" rather than failing or
// dropping the pointer.
func TestRenderFieldPointerToEnum(t *testing.T) {
	const colorIdx = 0x1000
	const colorFieldListIdx = 0x1001
	const pointerIdx = 0x1002
	const widgetIdx = 0x1003
	const widgetFieldListIdx = 0x1004

	records := [][]byte{
		typeRecord(tpi.LF_ENUM, enumRecordBytes("Color", colorFieldListIdx, tInt4)),
		typeRecord(tpi.LF_FIELDLIST, fieldListData(
			enumerateBytes(tpi.MemberAccessPublic, 0, "Red"),
			enumerateBytes(tpi.MemberAccessPublic, 1, "Green"),
		)),
		typeRecord(tpi.LF_POINTER, pointerRecordBytes(colorIdx, 0x0c)), // Near64, no flags
		typeRecord(tpi.LF_STRUCTURE, structRecordBytes("Widget", widgetFieldListIdx, 0, 8)),
		typeRecord(tpi.LF_FIELDLIST, fieldListData(
			memberBytes(tpi.MemberAccessPublic, pointerIdx, 0, "color"),
		)),
	}
	types := buildTypeTable(t, records)
	r := New(types)

	out, err := r.RenderType(pdb.TypeIndex(widgetIdx), cxx.DefaultPolicy())
	if err != nil {
		t.Fatalf("RenderType: %v", err)
	}
	if !strings.Contains(out, "Color* color;") {
		t.Errorf("expected a Color* field declaration, got:\n%s", out)
	}
}
