package langid

import (
	"encoding/binary"
	"math/bits"

	"github.com/tripleee/lastrings/bitops"
)

// PackedTrieNode is one 256-ary trie node: a bitmap of which of the 256
// possible child bytes are present, the index of the first child (the
// rest are contiguous, selected by popcount-ranking within the bitmap),
// and, for leaf nodes, the index of this n-gram's frequency record.
//
// This mirrors PackedSimpleTrieNode from original_source/langident/
// pstrie.h: m_children/m_popcounts (here: bitmap, popcount computed on
// read via math/bits.OnesCount32 instead of precomputed per-word,
// since a read-only mmap-backed trie can afford the few-word popcount
// at lookup time) and m_firstchild/m_frequency.
type PackedTrieNode struct {
	Bitmap     [8]uint32 // 256 bits, one per possible child byte
	FirstChild uint32
	RecordIdx  uint32 // index into the owning trie's Records, or recordNone
}

const recordNone uint32 = 0xFFFFFFFF

// NGramRecord is one leaf's payload: which language the n-gram belongs
// to, its quantized frequency weight, and whether it is a "stopgram" -
// an extremely common sequence (e.g. plain ASCII digrams) whose
// presence should not itself be strong evidence for a language, per
// original_source/langident/langid.h's stopgram handling.
type NGramRecord struct {
	LanguageID uint16
	Weight     QuantizedWeight
	Stopgram   bool
	LastInList bool
}

// PackedMultiTrie is a read-only, memory-mapped trie over byte
// n-grams where each leaf carries one or more NGramRecords (one per
// language the n-gram was observed in, chained via LastInList).
type PackedMultiTrie struct {
	Nodes     []PackedTrieNode
	Records   []NGramRecord
	raw       []byte
}

// ChildPresent reports whether byte b has a child under node.
func (n *PackedTrieNode) ChildPresent(b byte) bool {
	word := n.Bitmap[b>>5]
	return word&(1<<(uint(b)&31)) != 0
}

// ChildRank returns the popcount-based rank of byte b among node's
// present children (0-based), used to compute the child's index as
// FirstChild+rank. Grounded on pstrie.h's PackedSimpleTrieNode::
// childIndex, which likewise ranks children by bit position within
// the packed bitmap rather than storing an index per possible byte.
func (n *PackedTrieNode) ChildRank(b byte) int {
	wordIdx := b >> 5
	bitIdx := uint(b) & 31
	rank := 0
	for i := uint8(0); i < wordIdx; i++ {
		rank += bits.OnesCount32(n.Bitmap[i])
	}
	rank += bitops.PopCountMasked32(n.Bitmap[wordIdx], bitIdx)
	return rank
}

// ChildIndex returns the node index of b's child, and ok=false if b
// has no child.
func (t *PackedMultiTrie) ChildIndex(nodeIdx uint32, b byte) (uint32, bool) {
	node := t.node(nodeIdx)
	if node == nil || !node.ChildPresent(b) {
		return 0, false
	}
	return node.FirstChild + uint32(node.ChildRank(b)), true
}

func (t *PackedMultiTrie) node(idx uint32) *PackedTrieNode {
	if idx >= uint32(len(t.Nodes)) {
		return nil
	}
	return &t.Nodes[idx]
}

// Find walks key from the root, returning the node index reached and
// ok=false if key has no corresponding path in the trie.
func (t *PackedMultiTrie) Find(key []byte) (uint32, bool) {
	idx := uint32(0)
	for _, b := range key {
		next, ok := t.ChildIndex(idx, b)
		if !ok {
			return 0, false
		}
		idx = next
	}
	return idx, true
}

// RecordsAt returns every NGramRecord chained from nodeIdx's leaf, or
// nil if the node is not a leaf.
func (t *PackedMultiTrie) RecordsAt(nodeIdx uint32) []NGramRecord {
	node := t.node(nodeIdx)
	if node == nil || node.RecordIdx == recordNone {
		return nil
	}
	var out []NGramRecord
	for i := node.RecordIdx; i < uint32(len(t.Records)); i++ {
		rec := t.Records[i]
		out = append(out, rec)
		if rec.LastInList {
			break
		}
	}
	return out
}

// onDiskNodeSize is the serialized byte size of one PackedTrieNode:
// 8 bitmap words (32 bytes) + FirstChild (4) + RecordIdx (4).
const onDiskNodeSize = 8*4 + 4 + 4

// onDiskRecordSize is the serialized byte size of one NGramRecord: a
// packed uint32 (see quantize.go's PackRecord/UnpackRecord).
const onDiskRecordSize = 4

// parsePackedMultiTrie reads numNodes nodes and numRecords n-gram
// records from body, returning the constructed trie and the remaining
// unconsumed bytes (the language table follows immediately after).
func parsePackedMultiTrie(body []byte, numNodes, numRecords uint32) (*PackedMultiTrie, []byte, error) {
	nodesLen := int(numNodes) * onDiskNodeSize
	if len(body) < nodesLen {
		return nil, nil, ErrBadModel
	}
	nodes := make([]PackedTrieNode, numNodes)
	off := 0
	for i := range nodes {
		var n PackedTrieNode
		for w := 0; w < 8; w++ {
			n.Bitmap[w] = binary.LittleEndian.Uint32(body[off:])
			off += 4
		}
		n.FirstChild = binary.LittleEndian.Uint32(body[off:])
		off += 4
		n.RecordIdx = binary.LittleEndian.Uint32(body[off:])
		off += 4
		nodes[i] = n
	}
	body = body[off:]

	recordsLen := int(numRecords) * onDiskRecordSize
	if len(body) < recordsLen {
		return nil, nil, ErrBadModel
	}
	records := make([]NGramRecord, numRecords)
	off = 0
	for i := range records {
		packed := binary.LittleEndian.Uint32(body[off:])
		off += 4
		records[i] = UnpackRecord(packed)
	}
	return &PackedMultiTrie{Nodes: nodes, Records: records}, body[off:], nil
}
