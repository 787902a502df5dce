package spawn

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/navspawn/internal/model"
)

// Rand is the random source used by the scheduler and emitter.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// AreaSeed derives the PCG seed pair of one area from the run seed.
// The result depends only on (runSeed, area), so output does not depend on
// which worker processes which area.
func AreaSeed(runSeed uint64, area model.AreaID) (uint64, uint64) {
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[0:8], runSeed)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(area))
	sum := blake2b.Sum256(buf[:])
	return binary.LittleEndian.Uint64(sum[0:8]), binary.LittleEndian.Uint64(sum[8:16])
}

// NewAreaRand returns the deterministic random source for area.
func NewAreaRand(runSeed uint64, area model.AreaID) *rand.Rand {
	s1, s2 := AreaSeed(runSeed, area)
	return rand.New(rand.NewPCG(s1, s2))
}
