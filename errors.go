package waveletmatrix

import (
	"github.com/cockroachdb/errors"
)

// Errors returned by wavelet matrix and bit sequence operations.
// Returned errors wrap one of these; test with errors.Is.
var (
	// ErrOutOfRange indicates a position, range or rank outside valid bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrValueTooWide indicates a value that does not fit in the bit width.
	ErrValueTooWide = errors.New("value too wide for bit width")

	// ErrInvalidBitLen indicates a bit width of 0 or more than 64.
	ErrInvalidBitLen = errors.New("invalid bit width")

	// ErrCorrupted indicates an encoded matrix that cannot be decoded.
	ErrCorrupted = errors.New("corrupted encoding")
)

func errPos(pos, num uint64) error {
	return errors.Wrapf(ErrOutOfRange, "position %d, length %d", pos, num)
}

func errRange(ranze Range, num uint64) error {
	return errors.Wrapf(ErrOutOfRange, "range [%d, %d), length %d", ranze.Bpos, ranze.Epos, num)
}

func errRank(rank, count uint64) error {
	return errors.Wrapf(ErrOutOfRange, "rank %d, only %d occurrences", rank, count)
}

func errTooWide(val, blen uint64) error {
	return errors.Wrapf(ErrValueTooWide, "value %d needs %d bits, have %d", val, bitLenOf(val), blen)
}
