package engine

import (
	"hash/fnv"
	"math/rand"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// deriveSeed hashes a canonical encoding of the history together with the
// strategy name. Draws are already sorted, so the byte stream is stable across
// platforms and input orderings of the same draw.
func deriveSeed(h *models.DrawHistory, strategy string) int64 {
	hash := fnv.New64a()
	writeDraw := func(d models.Draw) {
		var buf [models.DrawSize]byte
		for i, n := range d {
			buf[i] = byte(n)
		}
		hash.Write(buf[:])
	}
	for i := 0; i < h.Len(); i++ {
		writeDraw(h.Winning(i))
	}
	if h.HasMachine() {
		hash.Write([]byte{0xff})
		for i := 0; i < h.Len(); i++ {
			writeDraw(h.Machine(i))
		}
	}
	hash.Write([]byte(strategy))
	return int64(hash.Sum64())
}

// newRand returns the single random source for one prediction call. Seeding
// happens here and nowhere else, so identical history+strategy inputs always
// replay the same sequence.
func newRand(h *models.DrawHistory, strategy string) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(h, strategy)))
}
