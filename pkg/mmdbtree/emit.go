// Package mmdbtree is the Search Tree Emitter: it walks the prefix radix
// tree in arena (node-index) order and serializes each node as a pair of
// fixed-width records, resolving children to either another node's index
// or a data pointer into the data section.
package mmdbtree

import (
	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
	"github.com/sjzar/ip2mmdb/pkg/radixtree"
)

// markerLen is the size of the fixed, all-zero marker that separates the
// search tree from the data section.
const markerLen = 16

// Record is one arena node's two resolved sides: either another node's
// index (< NodeCount), a data pointer (>= NodeCount+16), or the
// "not found" sentinel.
type Record struct {
	Left, Right uint64
}

// Tree is the emitted, fully-resolved search tree, ready for byte
// serialization.
type Tree struct {
	RecordSize int // 24 (country mode) or 28 (city mode)
	NodeCount  int
	Records    []Record
}

// Emit resolves every node of rt into a Record, given the byte offsets
// stage 3 assigned to each payload-key (payloadOffsets) and the total
// length of the data section they live in. Node indices follow rt's arena
// order, child 0 before child 1 within each node, matching insertion
// order: deterministic by construction.
func Emit(rt *radixtree.Tree, recordSize int, payloadOffsets map[string]int, dataSectionLen int) (*Tree, error) {
	nodes := rt.Nodes()
	nodeCount := len(nodes)

	limit := uint64(1) << uint(recordSize)
	// The sentinel for "no data" is node_count itself: every internal
	// pointer is < node_count, every data pointer is > node_count (it
	// carries node_count+16 already folded in below), so node_count is
	// the one record value neither can ever produce. A conformant reader
	// (traverseTree + lookupPointer) checks exactly "record == node_count"
	// to mean "not found" and treats anything larger as a data pointer —
	// so the sentinel must be this value, not an arbitrary reserved one,
	// for the produced file to round-trip against a real reader.
	sentinel := uint64(nodeCount)

	if sentinel >= limit {
		return nil, ipErrors.ErrRecordOverflow
	}
	// The highest data pointer this build could ever produce, node_count
	// + 16 + len(data_section), must still be representable in R bits.
	if uint64(nodeCount)+markerLen+uint64(dataSectionLen) >= limit {
		return nil, ipErrors.ErrRecordOverflow
	}

	records := make([]Record, nodeCount)
	for i, n := range nodes {
		left, err := resolveSide(n, 0, nodeCount, payloadOffsets, sentinel, limit)
		if err != nil {
			return nil, err
		}
		right, err := resolveSide(n, 1, nodeCount, payloadOffsets, sentinel, limit)
		if err != nil {
			return nil, err
		}
		records[i] = Record{Left: left, Right: right}
	}

	return &Tree{RecordSize: recordSize, NodeCount: nodeCount, Records: records}, nil
}

func resolveSide(
	n radixtree.Node,
	side int,
	nodeCount int,
	payloadOffsets map[string]int,
	sentinel uint64,
	limit uint64,
) (uint64, error) {
	if n.Empty(side) {
		return sentinel, nil
	}

	if n.IsLeaf[side] {
		offset, ok := payloadOffsets[n.Leaf[side]]
		if !ok {
			return 0, ipErrors.ErrMalformedRow
		}
		v := uint64(nodeCount) + markerLen + uint64(offset)
		if v >= limit {
			return 0, ipErrors.ErrRecordOverflow
		}
		return v, nil
	}

	v := uint64(n.Child[side])
	if v >= uint64(nodeCount) {
		return 0, ipErrors.ErrRecordOverflow
	}
	return v, nil
}

// Bytes serializes every record as a 24-bit or 28-bit node pair,
// big-endian, in arena order: node_0 || node_1 || ... || node_{N-1}.
func (t *Tree) Bytes() ([]byte, error) {
	recordBytes := 2 * t.RecordSize / 8
	buf := make([]byte, 0, recordBytes*t.NodeCount)
	for i := range t.Records {
		b, err := t.marshalNode(i)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

func (t *Tree) marshalNode(i int) ([]byte, error) {
	left, right := t.Records[i].Left, t.Records[i].Right
	switch t.RecordSize {
	case 24:
		return []byte{
			byte(left >> 16), byte(left >> 8), byte(left),
			byte(right >> 16), byte(right >> 8), byte(right),
		}, nil
	case 28:
		return []byte{
			byte(left >> 16), byte(left >> 8), byte(left),
			byte(((left>>24)&0x0F)<<4 | (right>>24)&0x0F),
			byte(right >> 16), byte(right >> 8), byte(right),
		}, nil
	default:
		return nil, ipErrors.ErrRecordOverflow
	}
}
