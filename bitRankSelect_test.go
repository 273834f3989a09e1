package waveletmatrix

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func randomBits(rng *rand.Rand, num int, density float64) []bool {
	bs := make([]bool, num)
	for i := range bs {
		bs[i] = rng.Float64() < density
	}
	return bs
}

// naiveRankSelect precomputes every rank and select answer of bs.
func naiveRankSelect(bs []bool) (ranks [2][]uint64, selects [2][]uint64) {
	for b := 0; b < 2; b++ {
		ranks[b] = make([]uint64, len(bs)+1)
		selects[b] = make([]uint64, 0)
	}
	for i, bit := range bs {
		b := 0
		if bit {
			b = 1
		}
		selects[b] = append(selects[b], uint64(i))
		ranks[0][i+1] = ranks[0][i]
		ranks[1][i+1] = ranks[1][i]
		ranks[b][i+1]++
	}
	return
}

func TestBitRankSelect(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, num := range []int{0, 1, 63, 64, 65, 511, 512, 513, 1500, 5000} {
		for _, density := range []float64{0, 0.03, 0.5, 0.97, 1} {
			bs := randomBits(rng, num, density)
			ranks, selects := naiveRankSelect(bs)
			brs := NewBitRankSelect(bs)
			Convey("When a random bit vector is built", t, func() {
				So(brs.Num(), ShouldEqual, num)
				So(brs.OneNum(), ShouldEqual, len(selects[1]))
				So(brs.ZeroNum(), ShouldEqual, len(selects[0]))
				Convey("Get and Rank match a naive count", func() {
					for i := 0; i <= num; i++ {
						if i < num {
							bit, err := brs.Get(uint64(i))
							So(err, ShouldBeNil)
							So(bit, ShouldEqual, bs[i])
						}
						r0, err := brs.Rank(uint64(i), false)
						So(err, ShouldBeNil)
						So(r0, ShouldEqual, ranks[0][i])
						r1, err := brs.Rank(uint64(i), true)
						So(err, ShouldBeNil)
						So(r1, ShouldEqual, ranks[1][i])
					}
				})
				Convey("Select inverts Rank", func() {
					for b, bit := range []bool{false, true} {
						for k, want := range selects[b] {
							pos, err := brs.Select(uint64(k), bit)
							So(err, ShouldBeNil)
							So(pos, ShouldEqual, want)
						}
					}
				})
				Convey("Out of range arguments fail", func() {
					_, err := brs.Get(uint64(num))
					So(errors.Is(err, ErrOutOfRange), ShouldBeTrue)
					_, err = brs.Rank(uint64(num)+1, true)
					So(errors.Is(err, ErrOutOfRange), ShouldBeTrue)
					_, err = brs.Select(brs.OneNum(), true)
					So(errors.Is(err, ErrOutOfRange), ShouldBeTrue)
					_, err = brs.Select(brs.ZeroNum(), false)
					So(errors.Is(err, ErrOutOfRange), ShouldBeTrue)
				})
			})
		}
	}
}

func TestLoadLevel(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, num := range []int{0, 1, 64, 700, 5000} {
		bs := randomBits(rng, num, 0.3)
		payload, err := NewBitRankSelect(bs).rsd.MarshalBinary()
		Convey("When a level is encoded", t, func() {
			So(err, ShouldBeNil)
			Convey("It loads back with the same bits", func() {
				rsd, err := loadLevel(payload, uint64(num))
				So(err, ShouldBeNil)
				bb := newBitsBuilder(uint64(num))
				newBitRankSelect(rsd).pushBitsTo(bb)
				So(bb.num, ShouldEqual, num)
				So(bb.words, ShouldResemble, packBits(bs).words)
			})
			Convey("It is rejected under another length", func() {
				_, err := loadLevel(payload, uint64(num)+1)
				So(errors.Is(err, ErrCorrupted), ShouldBeTrue)
				_, err = loadLevel(payload, ^uint64(0))
				So(errors.Is(err, ErrCorrupted), ShouldBeTrue)
			})
			Convey("Garbage is rejected", func() {
				_, err := loadLevel([]byte{0xc1, 0x00, 0x07}, 0)
				So(errors.Is(err, ErrCorrupted), ShouldBeTrue)
			})
		})
	}
}

func TestSelectInWord(t *testing.T) {
	Convey("selectInWord finds the k-th one bit", t, func() {
		So(selectInWord(1, 0), ShouldEqual, 0)
		So(selectInWord(0b1011000, 0), ShouldEqual, 3)
		So(selectInWord(0b1011000, 1), ShouldEqual, 4)
		So(selectInWord(0b1011000, 2), ShouldEqual, 6)
		So(selectInWord(^uint64(0), 63), ShouldEqual, 63)
	})
	Convey("bitLenOf is at least 1", t, func() {
		So(bitLenOf(0), ShouldEqual, 1)
		So(bitLenOf(1), ShouldEqual, 1)
		So(bitLenOf(3), ShouldEqual, 2)
		So(bitLenOf(4), ShouldEqual, 3)
		So(bitLenOf(^uint64(0)), ShouldEqual, 64)
	})
}

func BenchmarkBitRankSelect_Rank(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	brs := NewBitRankSelect(randomBits(rng, 1<<20, 0.5))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		brs.rank(uint64(rng.Int63n(1<<20)), true)
	}
}

func BenchmarkBitRankSelect_Select(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	brs := NewBitRankSelect(randomBits(rng, 1<<20, 0.5))
	ones := int64(brs.OneNum())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		brs.sel(uint64(rng.Int63n(ones)), true)
	}
}
