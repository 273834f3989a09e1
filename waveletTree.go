// Package waveletmatrix provides static and dynamic wavelet matrices
// supporting access, rank/select, range quantile and range frequency
// queries over sequences of bounded-width unsigned integers.
//
// WaveletMatrix is built once and is safe for concurrent reads.
// DynamicWaveletMatrix additionally supports insertion and deletion at
// arbitrary positions; it must not be used concurrently.
package waveletmatrix

// Range represents a range [Bpos, Epos)
// only valid for Bpos <= Epos
type Range struct {
	Bpos uint64
	Epos uint64
}

// Op selects the comparison used by RangedRankOp.
type Op int

const (
	// OpEqual is used in RangedRankOp()
	OpEqual Op = iota
	// OpLessThan is used in RangedRankOp()
	OpLessThan
	// OpMoreThan is used in RangedRankOp()
	OpMoreThan
	// OpMax is upper boundary for OpXXXX constants
	OpMax
)

// WaveletTree is the query set shared by WaveletMatrix and
// DynamicWaveletMatrix. T below denotes the stored sequence.
type WaveletTree interface {
	// Num returns the number of values in T.
	Num() uint64

	// BitLen returns the bit width of every value.
	BitLen() uint64

	// Access returns T[pos].
	Access(pos uint64) (uint64, error)

	// AccessAndRank returns T[pos] and Rank(T[pos], pos).
	AccessAndRank(pos uint64) (uint64, uint64, error)

	// Rank returns the number of val in T[0, pos).
	Rank(val uint64, pos uint64) (uint64, error)

	// Select returns the position of the (rank+1)-th val in T.
	Select(val uint64, rank uint64) (uint64, error)

	// Quantile returns the (k+1)-th smallest value in T[ranze].
	Quantile(ranze Range, k uint64) (uint64, error)

	// CountLessThan returns the number of values below bound in T[ranze].
	CountLessThan(ranze Range, bound uint64) (uint64, error)

	// RangeMin returns the smallest value in T[ranze].
	RangeMin(ranze Range) (uint64, error)

	// RangeMax returns the largest value in T[ranze].
	RangeMax(ranze Range) (uint64, error)

	// RangedRankOp returns the number of c in T[ranze] satisfying 'c op val'.
	RangedRankOp(ranze Range, val uint64, op Op) (uint64, error)

	// RangedRankRange returns the number of c in T[ranze] with
	// valueRange.Bpos <= c < valueRange.Epos.
	RangedRankRange(ranze Range, valueRange Range) (uint64, error)

	// RangedRankIgnoreLSBs returns the number of c in T[ranze] equal to val
	// when the low ignoreBits bits of both are dropped.
	RangedRankIgnoreLSBs(ranze Range, val uint64, ignoreBits uint64) (uint64, error)

	// RangedSelect returns the position of the (rank+1)-th val in T[ranze].
	RangedSelect(ranze Range, val uint64, rank uint64) (uint64, error)

	// RangedSelectIgnoreLSBs is RangedSelect matching as RangedRankIgnoreLSBs does.
	RangedSelectIgnoreLSBs(ranze Range, val uint64, rank uint64, ignoreBits uint64) (uint64, error)

	// Intersect returns, in ascending order, the values occurring in at
	// least k of the ranges.
	Intersect(ranges []Range, k int) ([]uint64, error)
}

var (
	_ WaveletTree = (*WaveletMatrix)(nil)
	_ WaveletTree = (*DynamicWaveletMatrix)(nil)
)
