// Package diff produces line-oriented diffs between two reconstructed C++
// texts, the way two PDBs for different builds of the same binary are
// compared.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ChangeTag classifies one line of a Diff's output.
type ChangeTag uint8

const (
	ChangeEqual ChangeTag = iota
	ChangeDelete
	ChangeInsert
)

func (c ChangeTag) prefix() byte {
	switch c {
	case ChangeDelete:
		return '-'
	case ChangeInsert:
		return '+'
	default:
		return ' '
	}
}

// LineMeta records where one diff line came from: its index in the old
// text, its index in the new text (at most one of the two is set for a
// pure insert/delete), and its change tag.
type LineMeta struct {
	OldIndex *int
	NewIndex *int
	Change   ChangeTag
}

// Diff is the result of comparing two texts: Data is the unified,
// prefixed text; Metadata carries one LineMeta per line of Data.
type Diff struct {
	Metadata []LineMeta
	Data     string
}

func intPtr(i int) *int { return &i }

// Generate diffs two texts line by line using go-difflib's SequenceMatcher,
// which matches longest common blocks (Ratcliff/Obershelp style); it is not
// a Myers diff, so its hunks can differ from a Myers implementation's.
func Generate(from, to string) Diff {
	fromLines := difflib.SplitLines(from)
	toLines := difflib.SplitLines(to)

	matcher := difflib.NewMatcher(fromLines, toLines)
	opcodes := matcher.GetOpCodes()

	var meta []LineMeta
	var data strings.Builder

	emit := func(tag ChangeTag, line string, oldIdx, newIdx *int) {
		meta = append(meta, LineMeta{OldIndex: oldIdx, NewIndex: newIdx, Change: tag})
		data.WriteByte(tag.prefix())
		data.WriteString(line)
	}

	for _, op := range opcodes {
		switch op.Tag {
		case 'e':
			for k := 0; k < op.I2-op.I1; k++ {
				emit(ChangeEqual, fromLines[op.I1+k], intPtr(op.I1+k), intPtr(op.J1+k))
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				emit(ChangeDelete, fromLines[i], intPtr(i), nil)
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				emit(ChangeInsert, toLines[j], nil, intPtr(j))
			}
		case 'r':
			for i := op.I1; i < op.I2; i++ {
				emit(ChangeDelete, fromLines[i], intPtr(i), nil)
			}
			for j := op.J1; j < op.J2; j++ {
				emit(ChangeInsert, toLines[j], nil, intPtr(j))
			}
		}
	}

	return Diff{Metadata: meta, Data: data.String()}
}
