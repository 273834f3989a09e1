package waveletmatrix

import (
	"math/bits"
	"slices"
)

// Tree shape constants for DynamicBitSequence.
const (
	// minChildren is the minimum children per internal node (except root).
	minChildren = 4

	// maxChildren is the maximum children per internal node before splitting.
	maxChildren = 8
)

// bitSummary holds aggregated counts for a subtree.
type bitSummary struct {
	bits uint64
	ones uint64
}

func (s bitSummary) add(other bitSummary) bitSummary {
	return bitSummary{bits: s.bits + other.bits, ones: s.ones + other.ones}
}

// count returns the number of bit in the subtree.
func (s bitSummary) count(bit bool) uint64 {
	if bit {
		return s.ones
	}
	return s.bits - s.ones
}

// bitNode is a node of the B+ tree behind DynamicBitSequence.
// Leaf nodes (height == 0) hold a single block of packed words; the block
// always has exactly ceil(bits/64) words and every bit past summary.bits is
// zero. Internal nodes (height > 0) hold children of equal height.
type bitNode struct {
	height   uint8
	summary  bitSummary
	children []*bitNode
	words    []uint64
}

func newLeafNode(words []uint64, num uint64) *bitNode {
	n := &bitNode{words: words}
	n.summary.bits = num
	for _, w := range words {
		n.summary.ones += uint64(bits.OnesCount64(w))
	}
	return n
}

func newInternalNode(children []*bitNode) *bitNode {
	n := &bitNode{
		height:   children[0].height + 1,
		children: children,
	}
	n.recomputeSummary()
	return n
}

func (n *bitNode) isLeaf() bool {
	return n.height == 0
}

func (n *bitNode) recomputeSummary() {
	n.summary = bitSummary{}
	for _, c := range n.children {
		n.summary = n.summary.add(c.summary)
	}
}

// underflow reports whether the node is below its minimum fill.
func (n *bitNode) underflow(blockBits uint64) bool {
	if n.isLeaf() {
		return n.summary.bits < blockBits/4
	}
	return len(n.children) < minChildren
}

// locate finds the child holding pos and returns its index, the offset
// within that child and the summary of all children before it.
// With inclusive set, a pos equal to a child's length stays in that child,
// which is what insertion at the end of a block needs.
func (n *bitNode) locate(pos uint64, inclusive bool) (int, uint64, bitSummary) {
	var before bitSummary
	last := len(n.children) - 1
	for i, c := range n.children[:last] {
		b := c.summary.bits
		if pos < b || (inclusive && pos == b) {
			return i, pos, before
		}
		pos -= b
		before = before.add(c.summary)
	}
	return last, pos, before
}

func (n *bitNode) bit(pos uint64) bool {
	for !n.isLeaf() {
		var i int
		i, pos, _ = n.locate(pos, false)
		n = n.children[i]
	}
	return wordBit(n.words, pos)
}

func (n *bitNode) rank1(pos uint64) uint64 {
	r := uint64(0)
	for !n.isLeaf() {
		var (
			i      int
			before bitSummary
		)
		i, pos, before = n.locate(pos, true)
		r += before.ones
		n = n.children[i]
	}
	i := pos / 64
	for _, w := range n.words[:i] {
		r += uint64(bits.OnesCount64(w))
	}
	if pos%64 != 0 {
		r += uint64(bits.OnesCount64(n.words[i] & (1<<(pos%64) - 1)))
	}
	return r
}

// sel returns the position of the (rank+1)-th bit; rank must be below
// the count of bit in the subtree.
func (n *bitNode) sel(rank uint64, bit bool) uint64 {
	pos := uint64(0)
	for !n.isLeaf() {
		last := len(n.children) - 1
		for i, c := range n.children {
			k := c.summary.count(bit)
			if rank < k || i == last {
				n = c
				break
			}
			rank -= k
			pos += c.summary.bits
		}
	}
	for i, w := range n.words {
		if !bit {
			w = ^w
			if tail := n.summary.bits - uint64(i)*64; tail < 64 {
				w &= 1<<tail - 1
			}
		}
		c := uint64(bits.OnesCount64(w))
		if rank < c {
			return pos + uint64(i)*64 + selectInWord(w, rank)
		}
		rank -= c
	}
	return pos + n.summary.bits
}

// insert puts bit at pos. When the node overflows it splits and the new
// right sibling is returned for the parent to adopt.
func (n *bitNode) insert(ds *DynamicBitSequence, pos uint64, bit bool) *bitNode {
	if n.isLeaf() {
		n.leafInsert(pos, bit)
		if n.summary.bits <= ds.blockBits {
			return nil
		}
		ds.debug("leaf split", n)
		return n.splitLeaf()
	}
	i, off, _ := n.locate(pos, true)
	n.summary.bits++
	if bit {
		n.summary.ones++
	}
	right := n.children[i].insert(ds, off, bit)
	if right == nil {
		return nil
	}
	n.children = slices.Insert(n.children, i+1, right)
	if len(n.children) <= maxChildren {
		return nil
	}
	ds.debug("node split", n)
	return n.splitInternal()
}

// remove deletes the bit at pos and returns it, merging or
// redistributing any child left under-filled.
func (n *bitNode) remove(ds *DynamicBitSequence, pos uint64) bool {
	if n.isLeaf() {
		return n.leafRemove(pos)
	}
	i, off, _ := n.locate(pos, false)
	bit := n.children[i].remove(ds, off)
	n.summary.bits--
	if bit {
		n.summary.ones--
	}
	if n.children[i].underflow(ds.blockBits) && len(n.children) > 1 {
		n.rebalance(ds, i)
	}
	return bit
}

// rebalance merges child i with a neighbour, or splits the merged node
// again when it would overflow. n's own summary does not change.
func (n *bitNode) rebalance(ds *DynamicBitSequence, i int) {
	l := i
	if l == len(n.children)-1 {
		l--
	}
	left, right := n.children[l], n.children[l+1]
	var overflow bool
	if left.isLeaf() {
		left.appendLeaf(right)
		overflow = left.summary.bits > ds.blockBits
	} else {
		left.children = append(left.children, right.children...)
		left.recomputeSummary()
		overflow = len(left.children) > maxChildren
	}
	if !overflow {
		ds.debug("merge", left)
		n.children = slices.Delete(n.children, l+1, l+2)
		return
	}
	ds.debug("redistribute", left)
	if left.isLeaf() {
		n.children[l+1] = left.splitLeaf()
	} else {
		n.children[l+1] = left.splitInternal()
	}
}

func (n *bitNode) leafInsert(pos uint64, bit bool) {
	if n.summary.bits%64 == 0 {
		n.words = append(n.words, 0)
	}
	i, off := pos/64, pos%64
	mask := uint64(1)<<off - 1
	w := n.words[i]
	carry := w >> 63
	n.words[i] = w&mask | (w&^mask)<<1
	if bit {
		n.words[i] |= 1 << off
		n.summary.ones++
	}
	for j := i + 1; j < uint64(len(n.words)); j++ {
		next := n.words[j] >> 63
		n.words[j] = n.words[j]<<1 | carry
		carry = next
	}
	n.summary.bits++
}

func (n *bitNode) leafRemove(pos uint64) bool {
	i, off := pos/64, pos%64
	mask := uint64(1)<<off - 1
	w := n.words[i]
	bit := (w>>off)&1 == 1
	n.words[i] = w&mask | (w>>1)&^mask
	for j := i; j+1 < uint64(len(n.words)); j++ {
		n.words[j] |= (n.words[j+1] & 1) << 63
		n.words[j+1] >>= 1
	}
	n.summary.bits--
	if bit {
		n.summary.ones--
	}
	if n.summary.bits%64 == 0 {
		n.words = n.words[:n.summary.bits/64]
	}
	return bit
}

// appendLeaf moves all bits of src to the end of n.
func (n *bitNode) appendLeaf(src *bitNode) {
	for i, w := range src.words {
		cnt := min(64, src.summary.bits-uint64(i)*64)
		n.words = appendWordBits(n.words, n.summary.bits, w, cnt)
		n.summary.bits += cnt
	}
	n.summary.ones += src.summary.ones
}

// splitLeaf keeps the first half of the block (rounded down to a word
// boundary) and returns a new leaf with the rest.
func (n *bitNode) splitLeaf() *bitNode {
	mid := (n.summary.bits / 2) &^ 63
	right := newLeafNode(slices.Clone(n.words[mid/64:]), n.summary.bits-mid)
	n.words = slices.Clip(n.words[:mid/64])
	n.summary.bits = mid
	n.summary.ones -= right.summary.ones
	return right
}

func (n *bitNode) splitInternal() *bitNode {
	mid := len(n.children) / 2
	right := newInternalNode(slices.Clone(n.children[mid:]))
	n.children = slices.Clip(n.children[:mid])
	n.summary.bits -= right.summary.bits
	n.summary.ones -= right.summary.ones
	return right
}

// appendBitsTo appends every bit in the subtree to out.
func (n *bitNode) appendBitsTo(out []bool) []bool {
	if !n.isLeaf() {
		for _, c := range n.children {
			out = c.appendBitsTo(out)
		}
		return out
	}
	for pos := uint64(0); pos < n.summary.bits; pos++ {
		out = append(out, wordBit(n.words, pos))
	}
	return out
}

// pushBitsTo replays every bit in the subtree into p.
func (n *bitNode) pushBitsTo(p bitPusher) {
	if !n.isLeaf() {
		for _, c := range n.children {
			c.pushBitsTo(p)
		}
		return
	}
	for pos := uint64(0); pos < n.summary.bits; pos++ {
		p.PushBack(wordBit(n.words, pos))
	}
}

// buildBitTree builds a balanced tree over packed words. Leaves are filled
// to three quarters of blockBits so early inserts do not split at once.
func buildBitTree(words []uint64, num uint64, blockBits uint64) *bitNode {
	perLeaf := max(1, (blockBits*3/4)/64)
	var nodes []*bitNode
	for i := uint64(0); i*64 < num; i += perLeaf {
		end := min(i+perLeaf, uint64(len(words)))
		cnt := min(perLeaf*64, num-i*64)
		nodes = append(nodes, newLeafNode(slices.Clone(words[i:end]), cnt))
	}
	if len(nodes) == 0 {
		return newLeafNode(nil, 0)
	}
	for len(nodes) > 1 {
		groups := (len(nodes) + maxChildren - 1) / maxChildren
		parents := make([]*bitNode, 0, groups)
		start := 0
		for g := 0; g < groups; g++ {
			end := start + (len(nodes)-start)/(groups-g)
			parents = append(parents, newInternalNode(slices.Clone(nodes[start:end])))
			start = end
		}
		nodes = parents
	}
	return nodes[0]
}
