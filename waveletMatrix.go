package waveletmatrix

import (
	"github.com/hillbig/rsdic"
)

// WaveletMatrix is an immutable wavelet matrix over a sequence T of
// values of BitLen bits each. All queries are read-only, so a
// WaveletMatrix may be shared between goroutines.
type WaveletMatrix struct {
	matrix[*BitRankSelect]
}

// New builds a WaveletMatrix over vals. The bit width is the width of the
// largest value (at least 1) unless fixed by WithBitLen.
func New(vals []uint64, opts ...Option) (*WaveletMatrix, error) {
	wmb := NewBuilder(opts...)
	wmb.vals = vals
	return wmb.Build()
}

func newWaveletMatrix(layers []*rsdic.RSDic, num uint64) *WaveletMatrix {
	levels := make([]*BitRankSelect, len(layers))
	for depth, rsd := range layers {
		levels[depth] = newBitRankSelect(rsd)
	}
	return fromLevels(levels, num)
}

func fromLevels(levels []*BitRankSelect, num uint64) *WaveletMatrix {
	wm := &WaveletMatrix{matrix[*BitRankSelect]{
		layers: levels,
		zeros:  make([]uint64, len(levels)),
		num:    num,
		blen:   uint64(len(levels)),
	}}
	for depth, brs := range levels {
		wm.zeros[depth] = brs.ZeroNum()
	}
	return wm
}

// MarshalBinary encodes WaveletMatrix into a binary form and returns the result.
func (wm *WaveletMatrix) MarshalBinary() ([]byte, error) {
	w, err := newWireMatrix(wm.layers, wm.num)
	if err != nil {
		return nil, err
	}
	return w.encode()
}

// UnmarshalBinary decodes WaveletMatrix from a binary form generated MarshalBinary
func (wm *WaveletMatrix) UnmarshalBinary(in []byte) error {
	var w wireMatrix
	levels, err := w.decode(in)
	if err != nil {
		return err
	}
	*wm = *fromLevels(levels, w.Num)
	return nil
}
