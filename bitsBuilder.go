package waveletmatrix

import "math/bits"

// bitPusher receives a bit sequence in order. Both bitsBuilder and the
// rank/select dictionary behind BitRankSelect are filled through it.
type bitPusher interface {
	PushBack(bit bool)
}

// bitsBuilder packs bits LSB-first into 64-bit words.
// Bits beyond num are always zero.
type bitsBuilder struct {
	words []uint64
	num   uint64
}

func newBitsBuilder(capacity uint64) *bitsBuilder {
	return &bitsBuilder{words: make([]uint64, 0, (capacity+63)/64)}
}

func (bb *bitsBuilder) PushBack(bit bool) {
	if bb.num%64 == 0 {
		bb.words = append(bb.words, 0)
	}
	if bit {
		bb.words[bb.num/64] |= 1 << (bb.num % 64)
	}
	bb.num++
}

// appendWordBits appends the low cnt bits of w to a packed slice
// currently holding num bits, keeping the slice at ceil(bits/64) words.
func appendWordBits(words []uint64, num uint64, w uint64, cnt uint64) []uint64 {
	off := num % 64
	if off == 0 {
		return append(words, w)
	}
	words[len(words)-1] |= w << off
	if off+cnt > 64 {
		words = append(words, w>>(64-off))
	}
	return words
}

func packBits(bs []bool) *bitsBuilder {
	bb := newBitsBuilder(uint64(len(bs)))
	for _, b := range bs {
		bb.PushBack(b)
	}
	return bb
}

// wordBit reports bit pos of a packed word slice.
func wordBit(words []uint64, pos uint64) bool {
	return (words[pos/64]>>(pos%64))&1 == 1
}

// selectInWord returns the position of the (rank+1)-th one bit of w.
// w must hold more than rank one bits.
func selectInWord(w uint64, rank uint64) uint64 {
	for ; rank > 0; rank-- {
		w &= w - 1
	}
	return uint64(bits.TrailingZeros64(w))
}

// bitLenOf returns the number of bits needed to hold val, at least 1.
func bitLenOf(val uint64) uint64 {
	if val == 0 {
		return 1
	}
	return uint64(bits.Len64(val))
}

func getMSB(x uint64, pos uint64, blen uint64) bool {
	return ((x >> (blen - pos - 1)) & 1) == 1
}

func getLSB(val, depth uint64) bool {
	return (val & (1 << depth)) != 0
}

// fits reports whether val can be represented in blen bits.
func fits(val, blen uint64) bool {
	return blen >= 64 || val>>blen == 0
}
