package waveletmatrix

import (
	"github.com/cockroachdb/errors"
	"github.com/hillbig/rsdic"
	"go.uber.org/zap"
)

// DynamicWaveletMatrix is a wavelet matrix whose sequence T can be edited
// by inserting and deleting values at any position. Every level is a
// DynamicBitSequence, so each edit costs O(BitLen * log n).
//
// A DynamicWaveletMatrix is not safe for concurrent use; callers that
// share one must serialize access themselves.
type DynamicWaveletMatrix struct {
	matrix[*DynamicBitSequence]
	opts options
}

// NewDynamic creates a DynamicWaveletMatrix of values of bitLen bits
// holding vals, which may be empty.
func NewDynamic(bitLen uint64, vals []uint64, opts ...Option) (*DynamicWaveletMatrix, error) {
	if bitLen == 0 || bitLen > MaxBitLen {
		return nil, errors.Wrapf(ErrInvalidBitLen, "bit width %d", bitLen)
	}
	for _, val := range vals {
		if !fits(val, bitLen) {
			return nil, errTooWide(val, bitLen)
		}
	}
	o := newOptions(opts)
	num := uint64(len(vals))
	layers := partition(vals, bitLen, func() *bitsBuilder { return newBitsBuilder(num) })
	dwm := newDynamicWaveletMatrix(layers, num, o)
	o.logger.Debug("dynamic wavelet matrix built",
		zap.Uint64("num", dwm.num),
		zap.Uint64("bitLen", dwm.blen),
		zap.Uint64("blockBits", o.blockBits),
	)
	return dwm, nil
}

func newDynamicWaveletMatrix(layers []*bitsBuilder, num uint64, o options) *DynamicWaveletMatrix {
	dwm := &DynamicWaveletMatrix{
		matrix: matrix[*DynamicBitSequence]{
			layers: make([]*DynamicBitSequence, len(layers)),
			zeros:  make([]uint64, len(layers)),
			num:    num,
			blen:   uint64(len(layers)),
		},
		opts: o,
	}
	for depth, bb := range layers {
		ds := newDynamicBitSequence(bb.words, bb.num, o)
		dwm.layers[depth] = ds
		dwm.zeros[depth] = ds.ZeroNum()
	}
	return dwm
}

// Insert puts val at pos, shifting later values right. pos may equal Num.
// Nothing changes when an error is returned.
func (dwm *DynamicWaveletMatrix) Insert(pos uint64, val uint64) error {
	if pos > dwm.num {
		return errPos(pos, dwm.num)
	}
	if !fits(val, dwm.blen) {
		return errTooWide(val, dwm.blen)
	}
	dwm.insert(pos, val)
	return nil
}

// PushBack appends val to T.
func (dwm *DynamicWaveletMatrix) PushBack(val uint64) error {
	return dwm.Insert(dwm.num, val)
}

// Delete removes T[pos], shifting later values left, and returns it.
func (dwm *DynamicWaveletMatrix) Delete(pos uint64) (uint64, error) {
	if pos >= dwm.num {
		return 0, errPos(pos, dwm.num)
	}
	return dwm.remove(pos), nil
}

// Update replaces T[pos] with val and returns the previous value.
func (dwm *DynamicWaveletMatrix) Update(pos uint64, val uint64) (uint64, error) {
	if pos >= dwm.num {
		return 0, errPos(pos, dwm.num)
	}
	if !fits(val, dwm.blen) {
		return 0, errTooWide(val, dwm.blen)
	}
	old := dwm.remove(pos)
	dwm.insert(pos, val)
	return old, nil
}

// insert walks the levels top-down. At each level the value's bit goes in
// at pos, and pos becomes the value's place in the next level: after the
// equal bits before it, offset past the zero half when the bit is one.
func (dwm *DynamicWaveletMatrix) insert(pos uint64, val uint64) {
	for depth := uint64(0); depth < dwm.blen; depth++ {
		bit := getMSB(val, depth, dwm.blen)
		layer := dwm.layers[depth]
		layer.insert(pos, bit)
		if bit {
			pos = dwm.zeros[depth] + layer.rank(pos, true)
		} else {
			dwm.zeros[depth]++
			pos = layer.rank(pos, false)
		}
	}
	dwm.num++
}

// remove walks the levels top-down like insert. The next position is
// taken before the bit is removed so it refers to the untouched level below.
func (dwm *DynamicWaveletMatrix) remove(pos uint64) uint64 {
	val := uint64(0)
	for depth := uint64(0); depth < dwm.blen; depth++ {
		layer := dwm.layers[depth]
		bit := layer.bit(pos)
		next := layer.rank(pos, bit)
		val <<= 1
		if bit {
			next += dwm.zeros[depth]
			val |= 1
		}
		layer.remove(pos)
		if !bit {
			dwm.zeros[depth]--
		}
		pos = next
	}
	dwm.num--
	return val
}

// Snapshot returns a static WaveletMatrix over the current contents.
// The snapshot does not change when dwm is edited afterwards.
func (dwm *DynamicWaveletMatrix) Snapshot() *WaveletMatrix {
	layers := make([]*rsdic.RSDic, dwm.blen)
	for depth, layer := range dwm.layers {
		rsd := rsdic.New()
		layer.root.pushBitsTo(rsd)
		layers[depth] = rsd
	}
	return newWaveletMatrix(layers, dwm.num)
}

// Values returns a copy of T.
func (dwm *DynamicWaveletMatrix) Values() []uint64 {
	wm := dwm.Snapshot()
	vals := make([]uint64, wm.num)
	for pos := range vals {
		vals[pos], _ = wm.Access(uint64(pos))
	}
	return vals
}

// MarshalBinary encodes DynamicWaveletMatrix into the same binary form
// as WaveletMatrix.MarshalBinary.
func (dwm *DynamicWaveletMatrix) MarshalBinary() ([]byte, error) {
	return dwm.Snapshot().MarshalBinary()
}

// UnmarshalBinary decodes a DynamicWaveletMatrix from the output of
// either MarshalBinary. Options set on dwm at creation are kept.
func (dwm *DynamicWaveletMatrix) UnmarshalBinary(in []byte) error {
	var w wireMatrix
	levels, err := w.decode(in)
	if err != nil {
		return err
	}
	layers := make([]*bitsBuilder, len(levels))
	for depth, brs := range levels {
		bb := newBitsBuilder(w.Num)
		brs.pushBitsTo(bb)
		layers[depth] = bb
	}
	o := dwm.opts
	if o.logger == nil {
		o = defaultOptions()
	}
	*dwm = *newDynamicWaveletMatrix(layers, w.Num, o)
	return nil
}
