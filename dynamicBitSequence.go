package waveletmatrix

import (
	"go.uber.org/zap"
)

// DynamicBitSequence is a mutable bit sequence supporting rank, select,
// insertion and deletion in O(log n) time.
//
// Bits live in fixed-capacity blocks at the leaves of a B+ tree whose
// internal nodes carry the bit and one-bit counts of their subtrees.
// Rank and select descend by those counts; insert splits full blocks and
// delete merges sparse ones with a neighbour.
//
// A DynamicBitSequence is not safe for concurrent use.
type DynamicBitSequence struct {
	root      *bitNode
	blockBits uint64
	logger    *zap.Logger
}

// NewDynamicBitSequence creates a DynamicBitSequence holding bs.
func NewDynamicBitSequence(bs []bool, opts ...Option) *DynamicBitSequence {
	bb := packBits(bs)
	return newDynamicBitSequence(bb.words, bb.num, newOptions(opts))
}

func newDynamicBitSequence(words []uint64, num uint64, o options) *DynamicBitSequence {
	return &DynamicBitSequence{
		root:      buildBitTree(words, num, o.blockBits),
		blockBits: o.blockBits,
		logger:    o.logger,
	}
}

// Num returns the number of bits.
func (ds *DynamicBitSequence) Num() uint64 {
	return ds.root.summary.bits
}

// OneNum returns the number of one bits.
func (ds *DynamicBitSequence) OneNum() uint64 {
	return ds.root.summary.ones
}

// ZeroNum returns the number of zero bits.
func (ds *DynamicBitSequence) ZeroNum() uint64 {
	return ds.root.summary.count(false)
}

// Get returns the bit at pos.
func (ds *DynamicBitSequence) Get(pos uint64) (bool, error) {
	if pos >= ds.Num() {
		return false, errPos(pos, ds.Num())
	}
	return ds.bit(pos), nil
}

// Rank returns the number of bit in [0, pos).
func (ds *DynamicBitSequence) Rank(pos uint64, bit bool) (uint64, error) {
	if pos > ds.Num() {
		return 0, errPos(pos, ds.Num())
	}
	return ds.rank(pos, bit), nil
}

// Select returns the position of the (rank+1)-th bit.
func (ds *DynamicBitSequence) Select(rank uint64, bit bool) (uint64, error) {
	if count := ds.root.summary.count(bit); rank >= count {
		return 0, errRank(rank, count)
	}
	return ds.sel(rank, bit), nil
}

// Insert puts bit at pos, shifting later bits right. pos may equal Num.
func (ds *DynamicBitSequence) Insert(pos uint64, bit bool) error {
	if pos > ds.Num() {
		return errPos(pos, ds.Num())
	}
	ds.insert(pos, bit)
	return nil
}

// Delete removes and returns the bit at pos, shifting later bits left.
func (ds *DynamicBitSequence) Delete(pos uint64) (bool, error) {
	if pos >= ds.Num() {
		return false, errPos(pos, ds.Num())
	}
	return ds.remove(pos), nil
}

// Bits returns a copy of the sequence.
func (ds *DynamicBitSequence) Bits() []bool {
	return ds.root.appendBitsTo(make([]bool, 0, ds.Num()))
}

func (ds *DynamicBitSequence) bit(pos uint64) bool {
	return ds.root.bit(pos)
}

func (ds *DynamicBitSequence) rank(pos uint64, bit bool) uint64 {
	r := ds.root.rank1(pos)
	if bit {
		return r
	}
	return pos - r
}

func (ds *DynamicBitSequence) sel(rank uint64, bit bool) uint64 {
	if rank >= ds.root.summary.count(bit) {
		return ds.Num()
	}
	return ds.root.sel(rank, bit)
}

func (ds *DynamicBitSequence) insert(pos uint64, bit bool) {
	if right := ds.root.insert(ds, pos, bit); right != nil {
		ds.root = newInternalNode([]*bitNode{ds.root, right})
		ds.debug("root split", ds.root)
	}
}

func (ds *DynamicBitSequence) remove(pos uint64) bool {
	bit := ds.root.remove(ds, pos)
	for !ds.root.isLeaf() && len(ds.root.children) == 1 {
		ds.root = ds.root.children[0]
		ds.debug("root collapse", ds.root)
	}
	return bit
}

func (ds *DynamicBitSequence) debug(msg string, n *bitNode) {
	if ce := ds.logger.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(
			zap.Uint8("height", n.height),
			zap.Uint64("bits", n.summary.bits),
			zap.Uint64("ones", n.summary.ones),
		)
	}
}
