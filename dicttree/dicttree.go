// Package dicttree implements the binary prefix tree used to greedily
// segment a glyph (or dictionary entry) bitstring against the dictionary's
// learned replacement patterns.
//
// The tree is rebuilt from scratch on every encode call, so nodes live in a
// flat arena addressed by index rather than behind individual pointers or
// interfaces: it's cheaper to allocate and friendlier to the allocator than
// a tree of owned node structs, and its lifetime never outlives the encode
// call that built it.
package dicttree

import "github.com/SeverusTacitus/mcufont/bitstring"

const noChild = -1

// Entry is the minimal view of a dictionary slot the tree needs to index
// it: the bits it replaces, and whether it is ref-coded (as opposed to
// RLE-coded). Empty entries (zero-length Replacement) are skipped by Build.
type Entry struct {
	Replacement bitstring.BitString
	RefEncode   bool
}

type node struct {
	index int // dictionary code this node terminates, or -1
	zero  int // child index for bit=false, or noChild
	one   int // child index for bit=true, or noChild
	ref   bool
}

// Tree is a binary trie over dictionary replacement bitstrings, with the
// two hardcoded single-bit entries (codes 0 and 1) always present.
type Tree struct {
	nodes []node
}

func (t *Tree) newNode() int {
	t.nodes = append(t.nodes, node{index: -1, zero: noChild, one: noChild})
	return len(t.nodes) - 1
}

func (t *Tree) child(n int, bit bool) int {
	if bit {
		return t.nodes[n].one
	}
	return t.nodes[n].zero
}

func (t *Tree) setChild(n int, bit bool, child int) {
	if bit {
		t.nodes[n].one = child
	} else {
		t.nodes[n].zero = child
	}
}

// Build constructs a lookup tree from an ordered list of dictionary
// entries. Non-empty entries are assigned codes 4, 5, 6, ... in the order
// they appear; empty entries are skipped and do not consume a code. The
// caller is responsible for having sorted entries RLE-before-ref-before-empty
// beforehand, since that ordering is what defines the emitted codes.
func Build(entries []Entry) *Tree {
	t := &Tree{nodes: make([]node, 0, len(entries)*4+3)}
	root := t.newNode()

	zero := t.newNode()
	t.nodes[zero].index = 0
	t.setChild(root, false, zero)

	one := t.newNode()
	t.nodes[one].index = 1
	t.setChild(root, true, one)

	code := 4
	for _, e := range entries {
		if e.Replacement.Len() == 0 {
			continue
		}

		cur := root
		for i := 0; i < e.Replacement.Len(); i++ {
			bit := e.Replacement.At(i)
			next := t.child(cur, bit)
			if next == noChild {
				next = t.newNode()
				t.setChild(cur, bit, next)
			}
			cur = next
		}

		if t.nodes[cur].index < 0 {
			t.nodes[cur].index = code
			t.nodes[cur].ref = e.RefEncode
		}
		code++
	}

	return t
}

// WalkLongestMatch walks the tree as far as possible starting at the
// beginning of bits, consuming bits while matching children exist. Every
// time a terminal node is passed whose code is eligible under the isGlyph
// filter, it becomes the new best (longest) match. Eligibility: a glyph may
// match any terminal; a ref-dictionary entry being encoded (isGlyph=false)
// may only match non-ref terminals, which is what keeps the reference graph
// acyclic.
//
// Returns the best match's code and the number of bits it consumed. ok is
// false only if no eligible terminal was ever passed, which can't happen as
// long as the hardcoded single-bit entries are present: callers should
// treat a false return as a fatal invariant violation.
func (t *Tree) WalkLongestMatch(bits bitstring.BitString, isGlyph bool) (code int, length int, ok bool) {
	bestCode := -1
	bestLength := 0

	cur := 0 // root
	for i := 0; i < bits.Len(); i++ {
		next := t.child(cur, bits.At(i))
		if next == noChild {
			break
		}
		cur = next

		n := t.nodes[cur]
		if n.index >= 0 && (isGlyph || !n.ref) {
			bestCode = n.index
			bestLength = i + 1
		}
	}

	if bestCode < 0 {
		return 0, 0, false
	}
	return bestCode, bestLength, true
}
