package depclosure

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/resym-go/resymgo/internal/tpi"
	"github.com/resym-go/resymgo/pdb"
)

func fu16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func fu32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func fcstr(s string) []byte {
	return append([]byte(s), 0)
}

// typeRecord frames data as one TPI type record: a 2-byte length covering
// kind+data, followed by the kind and the data itself.
func typeRecord(kind tpi.TypeRecordKind, data []byte) []byte {
	var buf bytes.Buffer
	buf.Write(fu16(uint16(len(data) + 2)))
	buf.Write(fu16(uint16(kind)))
	buf.Write(data)
	return buf.Bytes()
}

// buildTypeTable assembles a minimal TPI stream (56-byte header plus the
// given records, assigned sequential indices starting at
// tpi.FirstUserTypeIndex) and wraps it in a *pdb.TypeTable via
// pdb.NewTypeTable, the same path pdb.Open takes after reading a real TPI
// stream off disk.
func buildTypeTable(t *testing.T, records [][]byte) *pdb.TypeTable {
	t.Helper()

	var body bytes.Buffer
	for _, rec := range records {
		body.Write(rec)
	}

	var header bytes.Buffer
	header.Write(fu32(tpi.TPIVersionV80))
	header.Write(fu32(tpi.TPIHeaderSize))
	header.Write(fu32(uint32(tpi.FirstUserTypeIndex)))
	header.Write(fu32(uint32(tpi.FirstUserTypeIndex) + uint32(len(records))))
	header.Write(fu32(uint32(body.Len())))
	header.Write(fu16(0))      // HashStreamIndex
	header.Write(fu16(0xffff)) // HashAuxStreamIndex
	header.Write(fu32(4))      // HashKeySize
	header.Write(fu32(0))      // NumHashBuckets
	header.Write(fu32(0))      // HashValueBufferOffset
	header.Write(fu32(0))      // HashValueBufferLength
	header.Write(fu32(0))      // IndexOffsetBufferOffset
	header.Write(fu32(0))      // IndexOffsetBufferLength
	header.Write(fu32(0))      // HashAdjBufferOffset
	header.Write(fu32(0))      // HashAdjBufferLength

	var data bytes.Buffer
	data.Write(header.Bytes())
	data.Write(body.Bytes())

	stream, err := tpi.ParseStream(data.Bytes())
	if err != nil {
		t.Fatalf("tpi.ParseStream: %v", err)
	}
	return pdb.NewTypeTable(stream)
}

// memberBytes builds an LF_MEMBER field-list sub-record; offset must be
// small enough to encode as a plain (non leaf-prefixed) numeric value.
func memberBytes(access tpi.MemberAccess, typ uint32, offset uint16, name string) []byte {
	var buf bytes.Buffer
	buf.Write(fu16(uint16(tpi.LF_MEMBER)))
	buf.Write(fu16(uint16(access)))
	buf.Write(fu32(typ))
	buf.Write(fu16(offset))
	buf.Write(fcstr(name))
	return buf.Bytes()
}

// fieldListData concatenates field-list sub-records into the payload of an
// LF_FIELDLIST type record.
func fieldListData(members ...[]byte) []byte {
	var buf bytes.Buffer
	for _, m := range members {
		buf.Write(m)
	}
	return buf.Bytes()
}

// structRecordBytes builds the data payload of an LF_STRUCTURE record with
// no HasUniqueName property, so no trailing unique-name string.
func structRecordBytes(name string, fieldList, derivedFrom uint32, size uint16) []byte {
	var buf bytes.Buffer
	buf.Write(fu16(0)) // member count (unused by the collector)
	buf.Write(fu16(0)) // properties
	buf.Write(fu32(fieldList))
	buf.Write(fu32(derivedFrom))
	buf.Write(fu32(0)) // vshape
	buf.Write(fu16(size))
	buf.Write(fcstr(name))
	return buf.Bytes()
}

// enumRecordBytes builds the data payload of an LF_ENUM record.
func enumRecordBytes(name string, fieldList, underlying uint32) []byte {
	var buf bytes.Buffer
	buf.Write(fu16(0)) // count
	buf.Write(fu16(0)) // properties
	buf.Write(fu32(underlying))
	buf.Write(fu32(fieldList))
	buf.Write(fcstr(name))
	return buf.Bytes()
}

// enumerateBytes builds an LF_ENUMERATE field-list sub-record.
func enumerateBytes(access tpi.MemberAccess, value uint16, name string) []byte {
	var buf bytes.Buffer
	buf.Write(fu16(uint16(tpi.LF_ENUMERATE)))
	buf.Write(fu16(uint16(access)))
	buf.Write(fu16(value))
	buf.Write(fcstr(name))
	return buf.Bytes()
}

// pointerRecordBytes builds the data payload of an LF_POINTER record whose
// mode is never pointer-to-member, so it never carries a containing-class
// field.
func pointerRecordBytes(referent uint32, attrs uint32) []byte {
	var buf bytes.Buffer
	buf.Write(fu32(referent))
	buf.Write(fu32(attrs))
	return buf.Bytes()
}
