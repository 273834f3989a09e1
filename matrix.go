package waveletmatrix

import (
	"github.com/cockroachdb/errors"
)

// rankSelecter is what each level of a matrix must answer.
// Callers keep arguments in range: pos <= Num for rank, pos < Num for bit.
// sel returns Num when fewer than rank+1 bits exist.
type rankSelecter interface {
	Num() uint64
	bit(pos uint64) bool
	rank(pos uint64, bit bool) uint64
	sel(rank uint64, bit bool) uint64
}

var (
	_ rankSelecter = (*BitRankSelect)(nil)
	_ rankSelecter = (*DynamicBitSequence)(nil)
)

// matrix holds the levels of a wavelet matrix and implements every query
// once for both level backends. Level 0 holds the most significant bit;
// zeros[depth] is the number of zero bits at that level, which is where
// the one-bit half of the next level begins.
type matrix[S rankSelecter] struct {
	layers []S
	zeros  []uint64
	num    uint64
	blen   uint64 // =len(layers)
}

// Num returns the number of values in T.
func (wm *matrix[S]) Num() uint64 {
	return wm.num
}

// BitLen returns the bit width of every value.
func (wm *matrix[S]) BitLen() uint64 {
	return wm.blen
}

func (wm *matrix[S]) checkRange(ranze Range) error {
	if ranze.Bpos > ranze.Epos || ranze.Epos > wm.num {
		return errRange(ranze, wm.num)
	}
	return nil
}

// Access returns T[pos].
func (wm *matrix[S]) Access(pos uint64) (uint64, error) {
	if pos >= wm.num {
		return 0, errPos(pos, wm.num)
	}
	val := uint64(0)
	for depth, layer := range wm.layers {
		val <<= 1
		if !layer.bit(pos) {
			pos = layer.rank(pos, false)
		} else {
			val |= 1
			pos = wm.zeros[depth] + layer.rank(pos, true)
		}
	}
	return val, nil
}

// AccessAndRank returns T[pos] and Rank(T[pos], pos).
// Faster than Access and Rank
func (wm *matrix[S]) AccessAndRank(pos uint64) (uint64, uint64, error) {
	if pos >= wm.num {
		return 0, 0, errPos(pos, wm.num)
	}
	val := uint64(0)
	bpos := uint64(0)
	epos := pos
	for depth, layer := range wm.layers {
		bit := layer.bit(epos)
		bpos = layer.rank(bpos, bit)
		epos = layer.rank(epos, bit)
		val <<= 1
		if bit {
			bpos += wm.zeros[depth]
			epos += wm.zeros[depth]
			val |= 1
		}
	}
	return val, epos - bpos, nil
}

// Rank returns the number of val in T[0, pos).
// A val wider than BitLen never occurs and ranks 0.
func (wm *matrix[S]) Rank(val uint64, pos uint64) (uint64, error) {
	if pos > wm.num {
		return 0, errPos(pos, wm.num)
	}
	return wm.rangedRankOp(Range{0, pos}, val, OpEqual), nil
}

// CountLessThan returns the number of values c < bound in T[ranze].
func (wm *matrix[S]) CountLessThan(ranze Range, bound uint64) (uint64, error) {
	return wm.RangedRankOp(ranze, bound, OpLessThan)
}

// RangedRankOp returns the number of c that satisfies 'c op val'
// in T[ranze.Bpos, ranze.Epos).
// The op should be one of {OpEqual, OpLessThan, OpMoreThan}.
func (wm *matrix[S]) RangedRankOp(ranze Range, val uint64, op Op) (uint64, error) {
	if err := wm.checkRange(ranze); err != nil {
		return 0, err
	}
	if op < OpEqual || op >= OpMax {
		return 0, errors.Wrapf(ErrOutOfRange, "unknown op %d", op)
	}
	return wm.rangedRankOp(ranze, val, op), nil
}

func (wm *matrix[S]) rangedRankOp(ranze Range, val uint64, op Op) uint64 {
	if !fits(val, wm.blen) {
		if op == OpLessThan {
			return ranze.Epos - ranze.Bpos
		}
		return 0
	}
	rankLessThan := uint64(0)
	rankMoreThan := uint64(0)
	for depth := uint64(0); depth < wm.blen; depth++ {
		bit := getMSB(val, depth, wm.blen)
		layer := wm.layers[depth]
		if bit {
			if op == OpLessThan {
				rankLessThan += layer.rank(ranze.Epos, false) - layer.rank(ranze.Bpos, false)
			}
			ranze.Bpos = wm.zeros[depth] + layer.rank(ranze.Bpos, bit)
			ranze.Epos = wm.zeros[depth] + layer.rank(ranze.Epos, bit)
		} else {
			if op == OpMoreThan {
				rankMoreThan += layer.rank(ranze.Epos, true) - layer.rank(ranze.Bpos, true)
			}
			ranze.Bpos = layer.rank(ranze.Bpos, bit)
			ranze.Epos = layer.rank(ranze.Epos, bit)
		}
	}
	switch op {
	case OpLessThan:
		return rankLessThan
	case OpMoreThan:
		return rankMoreThan
	default:
		return ranze.Epos - ranze.Bpos
	}
}

// RangedRankRange searches T[ranze.Bpos, ranze.Epos) and
// returns the number of c that falls within valueRange
// i.e. [valueRange.Bpos, valueRange.Epos).
func (wm *matrix[S]) RangedRankRange(ranze Range, valueRange Range) (uint64, error) {
	if err := wm.checkRange(ranze); err != nil {
		return 0, err
	}
	if valueRange.Bpos >= valueRange.Epos {
		return 0, nil
	}
	end := wm.rangedRankOp(ranze, valueRange.Epos, OpLessThan)
	beg := wm.rangedRankOp(ranze, valueRange.Bpos, OpLessThan)
	return end - beg, nil
}

func (wm *matrix[S]) rangedRankIgnoreLSBsHelper(ranze Range, val uint64, ignoreBits uint64) Range {
	for depth := uint64(0); depth+ignoreBits < wm.blen; depth++ {
		bit := getMSB(val, depth, wm.blen)
		layer := wm.layers[depth]
		if bit {
			ranze.Bpos = wm.zeros[depth] + layer.rank(ranze.Bpos, bit)
			ranze.Epos = wm.zeros[depth] + layer.rank(ranze.Epos, bit)
		} else {
			ranze.Bpos = layer.rank(ranze.Bpos, bit)
			ranze.Epos = layer.rank(ranze.Epos, bit)
		}
	}
	return ranze
}

// RangedRankIgnoreLSBs searches T[ranze.Bpos, ranze.Epos) and
// returns the number of c that matches the val.
//
// If ignoreBits > 0, ignoreBits-bit portion from LSB are not considered
// for match.
// This behavior is useful for IP address prefix search such as 192.168.10.0/24
// (ignoreBits in this case, is 8).
func (wm *matrix[S]) RangedRankIgnoreLSBs(ranze Range, val uint64, ignoreBits uint64) (uint64, error) {
	if err := wm.checkRange(ranze); err != nil {
		return 0, err
	}
	ignoreBits = min(ignoreBits, wm.blen)
	if !fits(val, wm.blen) {
		return 0, nil
	}
	r := wm.rangedRankIgnoreLSBsHelper(ranze, val, ignoreBits)
	return r.Epos - r.Bpos, nil
}

// rangedSelectIgnoreLSBsHelper maps pos, a position inside the node of val
// at level blen-ignoreBits, back to a position in T.
func (wm *matrix[S]) rangedSelectIgnoreLSBsHelper(pos, val, ignoreBits uint64) uint64 {
	for depth := ignoreBits; depth < wm.blen; depth++ {
		bit := getLSB(val, depth)
		d := wm.blen - depth - 1
		layer := wm.layers[d]
		if bit {
			pos = layer.sel(pos-wm.zeros[d], bit)
		} else {
			pos = layer.sel(pos, bit)
		}
	}
	return pos
}

// Select returns the position of the (rank+1)-th val in T.
// Fails with ErrOutOfRange when val occurs rank times or fewer.
func (wm *matrix[S]) Select(val uint64, rank uint64) (uint64, error) {
	return wm.RangedSelectIgnoreLSBs(Range{0, wm.num}, val, rank, 0)
}

// RangedSelect returns the position of the (rank+1)-th val
// in T[ranze.Bpos, ranze.Epos).
func (wm *matrix[S]) RangedSelect(ranze Range, val uint64, rank uint64) (uint64, error) {
	return wm.RangedSelectIgnoreLSBs(ranze, val, rank, 0)
}

// RangedSelectIgnoreLSBs searches T[ranze.Bpos, ranze.Epos) and
// returns the position of (rank+1)'th c that matches the val,
// ignoring the low ignoreBits bits as RangedRankIgnoreLSBs does.
func (wm *matrix[S]) RangedSelectIgnoreLSBs(ranze Range, val uint64, rank uint64, ignoreBits uint64) (uint64, error) {
	if err := wm.checkRange(ranze); err != nil {
		return 0, err
	}
	ignoreBits = min(ignoreBits, wm.blen)
	if !fits(val, wm.blen) {
		return 0, errRank(rank, 0)
	}
	r := wm.rangedRankIgnoreLSBsHelper(ranze, val, ignoreBits)
	if count := r.Epos - r.Bpos; rank >= count {
		return 0, errRank(rank, count)
	}
	return wm.rangedSelectIgnoreLSBsHelper(r.Bpos+rank, val, ignoreBits), nil
}

// Quantile returns (k+1)th smallest value in T[ranze.Bpos, ranze.Epos)
func (wm *matrix[S]) Quantile(ranze Range, k uint64) (uint64, error) {
	if err := wm.checkRange(ranze); err != nil {
		return 0, err
	}
	if width := ranze.Epos - ranze.Bpos; k >= width {
		return 0, errors.Wrapf(ErrOutOfRange, "k %d, range holds %d values", k, width)
	}
	val := uint64(0)
	bpos, epos := ranze.Bpos, ranze.Epos
	for depth, layer := range wm.layers {
		val <<= 1
		nzBpos := layer.rank(bpos, false)
		nzEpos := layer.rank(epos, false)
		nz := nzEpos - nzBpos
		if k < nz {
			bpos = nzBpos
			epos = nzEpos
		} else {
			k -= nz
			val |= 1
			bpos = wm.zeros[depth] + bpos - nzBpos
			epos = wm.zeros[depth] + epos - nzEpos
		}
	}
	return val, nil
}

// RangeMin returns the smallest value in T[ranze].
func (wm *matrix[S]) RangeMin(ranze Range) (uint64, error) {
	return wm.Quantile(ranze, 0)
}

// RangeMax returns the largest value in T[ranze].
func (wm *matrix[S]) RangeMax(ranze Range) (uint64, error) {
	if ranze.Epos <= ranze.Bpos {
		return 0, errRange(ranze, wm.num)
	}
	return wm.Quantile(ranze, ranze.Epos-ranze.Bpos-1)
}

// Intersect returns, in ascending order, the values that occur in at
// least k of the ranges.
func (wm *matrix[S]) Intersect(ranges []Range, k int) ([]uint64, error) {
	if k < 1 {
		return nil, errors.Wrapf(ErrOutOfRange, "k %d, want at least 1", k)
	}
	for _, ranze := range ranges {
		if err := wm.checkRange(ranze); err != nil {
			return nil, err
		}
	}
	if len(ranges) < k {
		return []uint64{}, nil
	}
	return wm.intersectHelper(ranges, k, 0, 0), nil
}

func (wm *matrix[S]) intersectHelper(ranges []Range, k int, depth uint64, prefix uint64) []uint64 {
	if depth == wm.blen {
		return []uint64{prefix}
	}
	layer := wm.layers[depth]
	zeroRanges := make([]Range, 0, len(ranges))
	oneRanges := make([]Range, 0, len(ranges))
	for _, ranze := range ranges {
		bpos, epos := ranze.Bpos, ranze.Epos
		nzBpos := layer.rank(bpos, false)
		nzEpos := layer.rank(epos, false)
		noBpos := bpos - nzBpos + wm.zeros[depth]
		noEpos := epos - nzEpos + wm.zeros[depth]
		if nzEpos-nzBpos > 0 {
			zeroRanges = append(zeroRanges, Range{nzBpos, nzEpos})
		}
		if noEpos-noBpos > 0 {
			oneRanges = append(oneRanges, Range{noBpos, noEpos})
		}
	}
	ret := make([]uint64, 0)
	if len(zeroRanges) >= k {
		ret = append(ret, wm.intersectHelper(zeroRanges, k, depth+1, prefix<<1)...)
	}
	if len(oneRanges) >= k {
		ret = append(ret, wm.intersectHelper(oneRanges, k, depth+1, (prefix<<1)|1)...)
	}
	return ret
}
