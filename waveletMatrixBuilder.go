package waveletmatrix

import (
	"github.com/cockroachdb/errors"
	"github.com/hillbig/rsdic"
	"go.uber.org/zap"
)

// WaveletMatrixBuilder builds a WaveletMatrix from an integer array.
// A user calls PushBack()s followed by Build().
type WaveletMatrixBuilder struct {
	vals []uint64
	opts options
}

// NewBuilder returns an empty WaveletMatrixBuilder.
func NewBuilder(opts ...Option) *WaveletMatrixBuilder {
	return &WaveletMatrixBuilder{
		vals: make([]uint64, 0),
		opts: newOptions(opts),
	}
}

// PushBack appends val to the array.
func (wmb *WaveletMatrixBuilder) PushBack(val uint64) {
	wmb.vals = append(wmb.vals, val)
}

// Build returns a WaveletMatrix over the pushed values.
// The builder may keep being used afterwards.
func (wmb *WaveletMatrixBuilder) Build() (*WaveletMatrix, error) {
	blen, err := resolveBitLen(wmb.vals, wmb.opts)
	if err != nil {
		return nil, err
	}
	wm := newWaveletMatrix(partition(wmb.vals, blen, rsdic.New), uint64(len(wmb.vals)))
	wmb.opts.logger.Debug("wavelet matrix built",
		zap.Uint64("num", wm.num),
		zap.Uint64("bitLen", wm.blen),
	)
	return wm, nil
}

// resolveBitLen returns the width fixed by WithBitLen, checked against
// vals, or else the width of the largest value.
func resolveBitLen(vals []uint64, o options) (uint64, error) {
	if o.bitLenSet && (o.bitLen == 0 || o.bitLen > MaxBitLen) {
		return 0, errors.Wrapf(ErrInvalidBitLen, "bit width %d", o.bitLen)
	}
	maxVal := uint64(0)
	for _, val := range vals {
		maxVal = max(maxVal, val)
	}
	if !o.bitLenSet {
		return bitLenOf(maxVal), nil
	}
	if !fits(maxVal, o.bitLen) {
		return 0, errTooWide(maxVal, o.bitLen)
	}
	return o.bitLen, nil
}

// partition runs the stable radix partition over vals, most significant
// bit first, pushing the bits of every level into a level from newLevel.
func partition[B bitPusher](vals []uint64, blen uint64, newLevel func() B) []B {
	zeros := vals
	ones := make([]uint64, 0)
	layers := make([]B, blen)
	for depth := uint64(0); depth < blen; depth++ {
		nextZeros := make([]uint64, 0, len(vals))
		nextOnes := make([]uint64, 0)
		level := newLevel()
		filter(zeros, blen-depth-1, &nextZeros, &nextOnes, level)
		filter(ones, blen-depth-1, &nextZeros, &nextOnes, level)
		zeros = nextZeros
		ones = nextOnes
		layers[depth] = level
	}
	return layers
}

func filter(vals []uint64, shift uint64, nextZeros *[]uint64, nextOnes *[]uint64, level bitPusher) {
	for _, val := range vals {
		bit := ((val >> shift) & 1) == 1
		level.PushBack(bit)
		if bit {
			*nextOnes = append(*nextOnes, val)
		} else {
			*nextZeros = append(*nextZeros, val)
		}
	}
}
