package waveletmatrix

import (
	"github.com/hillbig/rsdic"
)

// BitRankSelect is an immutable bit sequence supporting constant time
// rank and select, backed by a compressed rank/select dictionary.
type BitRankSelect struct {
	rsd *rsdic.RSDic
}

// NewBitRankSelect builds a BitRankSelect over bs.
func NewBitRankSelect(bs []bool) *BitRankSelect {
	rsd := rsdic.New()
	for _, b := range bs {
		rsd.PushBack(b)
	}
	return newBitRankSelect(rsd)
}

// newBitRankSelect takes ownership of rsd; nothing may push to it afterwards.
func newBitRankSelect(rsd *rsdic.RSDic) *BitRankSelect {
	return &BitRankSelect{rsd: rsd}
}

// Num returns the number of bits.
func (brs *BitRankSelect) Num() uint64 {
	return brs.rsd.Num()
}

// OneNum returns the number of one bits.
func (brs *BitRankSelect) OneNum() uint64 {
	return brs.rsd.OneNum()
}

// ZeroNum returns the number of zero bits.
func (brs *BitRankSelect) ZeroNum() uint64 {
	return brs.rsd.ZeroNum()
}

// Get returns the bit at pos.
func (brs *BitRankSelect) Get(pos uint64) (bool, error) {
	if num := brs.rsd.Num(); pos >= num {
		return false, errPos(pos, num)
	}
	return brs.rsd.Bit(pos), nil
}

// Rank returns the number of bit in [0, pos).
func (brs *BitRankSelect) Rank(pos uint64, bit bool) (uint64, error) {
	if num := brs.rsd.Num(); pos > num {
		return 0, errPos(pos, num)
	}
	return brs.rsd.Rank(pos, bit), nil
}

// Select returns the position of the (rank+1)-th bit.
func (brs *BitRankSelect) Select(rank uint64, bit bool) (uint64, error) {
	count := brs.rsd.OneNum()
	if !bit {
		count = brs.rsd.ZeroNum()
	}
	if rank >= count {
		return 0, errRank(rank, count)
	}
	return brs.rsd.Select(rank, bit), nil
}

// pushBitsTo replays every bit into p.
func (brs *BitRankSelect) pushBitsTo(p bitPusher) {
	for pos := uint64(0); pos < brs.rsd.Num(); pos++ {
		p.PushBack(brs.rsd.Bit(pos))
	}
}

func (brs *BitRankSelect) bit(pos uint64) bool {
	return brs.rsd.Bit(pos)
}

func (brs *BitRankSelect) rank(pos uint64, bit bool) uint64 {
	return brs.rsd.Rank(pos, bit)
}

// sel returns Num when fewer than rank+1 bits exist, as rsdic does.
func (brs *BitRankSelect) sel(rank uint64, bit bool) uint64 {
	return brs.rsd.Select(rank, bit)
}
