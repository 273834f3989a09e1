package waveletmatrix

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/hillbig/rsdic"
	"github.com/ugorji/go/codec"
)

// wireMatrix is the msgpack form shared by WaveletMatrix and
// DynamicWaveletMatrix. Every level is stored in the binary form of its
// rank/select dictionary, so either type decodes what the other encodes.
type wireMatrix struct {
	BitLen uint64   `codec:"blen"`
	Num    uint64   `codec:"num"`
	Layers [][]byte `codec:"layers"`
	Sum    uint64   `codec:"sum"`
}

func newWireMatrix(layers []*BitRankSelect, num uint64) (wireMatrix, error) {
	w := wireMatrix{
		BitLen: uint64(len(layers)),
		Num:    num,
		Layers: make([][]byte, len(layers)),
	}
	for depth, layer := range layers {
		out, err := layer.rsd.MarshalBinary()
		if err != nil {
			return wireMatrix{}, errors.Wrapf(err, "encode level %d", depth)
		}
		w.Layers[depth] = out
	}
	return w, nil
}

func (w *wireMatrix) checksum() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	put(w.BitLen)
	put(w.Num)
	for _, layer := range w.Layers {
		put(uint64(len(layer)))
		_, _ = d.Write(layer)
	}
	return d.Sum64()
}

func (w *wireMatrix) encode() (out []byte, err error) {
	w.Sum = w.checksum()
	var mh codec.MsgpackHandle
	enc := codec.NewEncoderBytes(&out, &mh)
	if err = enc.Encode(w); err != nil {
		return nil, errors.Wrap(err, "encode wavelet matrix")
	}
	return out, nil
}

// decode reads a wireMatrix from in and returns its validated levels.
func (w *wireMatrix) decode(in []byte) ([]*BitRankSelect, error) {
	var mh codec.MsgpackHandle
	dec := codec.NewDecoderBytes(in, &mh)
	if err := dec.Decode(w); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode wavelet matrix"), ErrCorrupted)
	}
	if w.BitLen == 0 || w.BitLen > MaxBitLen {
		return nil, errors.Wrapf(ErrCorrupted, "bit width %d", w.BitLen)
	}
	if uint64(len(w.Layers)) != w.BitLen {
		return nil, errors.Wrapf(ErrCorrupted, "%d levels for bit width %d", len(w.Layers), w.BitLen)
	}
	if sum := w.checksum(); sum != w.Sum {
		return nil, errors.Wrapf(ErrCorrupted, "checksum %016x, want %016x", sum, w.Sum)
	}
	layers := make([]*BitRankSelect, len(w.Layers))
	for depth, payload := range w.Layers {
		rsd, err := loadLevel(payload, w.Num)
		if err != nil {
			return nil, errors.Wrapf(err, "level %d", depth)
		}
		layers[depth] = newBitRankSelect(rsd)
	}
	return layers, nil
}

// loadLevel decodes one level of num bits. The level is rebuilt from its
// bits and must encode back to exactly payload, so its indexes are known
// to be consistent before any query touches them.
func loadLevel(payload []byte, num uint64) (rsd *rsdic.RSDic, err error) {
	// every 64 bits carry at least one byte of rank samples
	if num/64 > uint64(len(payload)) {
		return nil, errors.Wrapf(ErrCorrupted, "%d bytes cannot hold %d bits", len(payload), num)
	}
	stored := rsdic.New()
	if err := stored.UnmarshalBinary(payload); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode level"), ErrCorrupted)
	}
	if stored.Num() != num {
		return nil, errors.Wrapf(ErrCorrupted, "level holds %d bits, want %d", stored.Num(), num)
	}
	defer func() {
		if r := recover(); r != nil {
			rsd, err = nil, errors.Wrapf(ErrCorrupted, "inconsistent level indexes: %v", r)
		}
	}()
	rsd = rsdic.New()
	newBitRankSelect(stored).pushBitsTo(rsd)
	canon, err := rsd.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "encode level")
	}
	if !bytes.Equal(canon, payload) {
		return nil, errors.Wrap(ErrCorrupted, "level indexes do not match its bits")
	}
	return rsd, nil
}
