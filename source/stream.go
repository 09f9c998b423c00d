package source

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// stream is a deterministic sequence of uniform values in [0, 1), the xxh3 hash
// of a counter under a seed. Draw n depends only on (seed, n), so any draw can be
// recomputed without replaying the ones before it.
type stream struct {
	seed uint64
	n    uint64
	buf  [8]byte
}

func newStream(seed int64) *stream {
	return &stream{seed: uint64(seed)} //nolint:gosec // G115: seed bits are reinterpreted
}

func (s *stream) float() float64 {
	binary.LittleEndian.PutUint64(s.buf[:], s.n)
	s.n++

	return float64(xxh3.HashSeed(s.buf[:], s.seed)>>11) / (1 << 53)
}

// intn returns an integer in [lo, hi]. hi < lo returns lo.
func (s *stream) intn(lo, hi int) int {
	if hi <= lo {
		return lo
	}

	v := lo + int(s.float()*float64(hi-lo+1))

	return min(v, hi)
}
