package depclosure

import (
	"testing"

	"github.com/resym-go/resymgo/internal/cxx"
	"github.com/resym-go/resymgo/internal/tpi"
	"github.com/resym-go/resymgo/pdb"
)

const tInt4 = 0x0074

func contains(ids []pdb.TypeIndex, want pdb.TypeIndex) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

// TestCollectPointerToEnumRequiresFullDefinition covers spec.md §4.4 rule 3:
// an enum reached only through a pointer field still needs a full
// definition, not a forward declaration, since an enum has no legal
// forward-declaration form in this renderer's output.
func TestCollectPointerToEnumRequiresFullDefinition(t *testing.T) {
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
	c := New(types)

	closure, err := c.Collect(pdb.TypeIndex(widgetIdx), cxx.DefaultPolicy())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if !contains(closure.FullDefs, pdb.TypeIndex(colorIdx)) {
		t.Errorf("expected Color (0x%x) in FullDefs, got %v", colorIdx, closure.FullDefs)
	}
	if contains(closure.ForwardDecls, pdb.TypeIndex(colorIdx)) {
		t.Errorf("Color must never be forward-declared, got %v", closure.ForwardDecls)
	}
}

// TestCollectPointerToCompositeForwardOnly covers the ordinary case a
// pointer/reference edge to a non-enum composite only needs a forward
// declaration, even when the composite happens to be the traversal root
// itself (a self-referential pointer, e.g. a linked-list node).
func TestCollectPointerToCompositeForwardOnly(t *testing.T) {
	const nodeIdx = 0x1000
	const nodeFieldListIdx = 0x1001
	const pointerIdx = 0x1002

	records := [][]byte{
		typeRecord(tpi.LF_STRUCTURE, structRecordBytes("Node", nodeFieldListIdx, 0, 16)),
		typeRecord(tpi.LF_FIELDLIST, fieldListData(
			memberBytes(tpi.MemberAccessPublic, tInt4, 0, "value"),
			memberBytes(tpi.MemberAccessPublic, pointerIdx, 8, "next"),
		)),
		typeRecord(tpi.LF_POINTER, pointerRecordBytes(nodeIdx, 0x0c)),
	}
	types := buildTypeTable(t, records)
	c := New(types)

	closure, err := c.Collect(pdb.TypeIndex(nodeIdx), cxx.DefaultPolicy())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if !contains(closure.FullDefs, pdb.TypeIndex(nodeIdx)) {
		t.Errorf("expected Node (0x%x) in FullDefs, got %v", nodeIdx, closure.FullDefs)
	}
	if contains(closure.ForwardDecls, pdb.TypeIndex(nodeIdx)) {
		t.Errorf("a type that already gets a full definition must not also appear as a forward decl, got %v", closure.ForwardDecls)
	}
}
