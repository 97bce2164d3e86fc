// Package rng is the deterministic generator shared by terrain classification
// and structure placement.
package rng

// Source is a 64-bit linear congruential generator.
type Source struct {
	state int64
}

// New seeds a Source directly.
func New(seed int64) *Source {
	return &Source{state: seed}
}

// ForChunk derives a Source for one chunk column. Different salts give
// independent streams for the same chunk.
func ForChunk(seed int64, cx, cz int, salt int64) *Source {
	s := seed ^ (int64(cx)*341873128712 + int64(cz)*132897987541 + salt)
	return &Source{state: s}
}

// ForBlock derives a Source for a single block position. Each coordinate is
// mixed in separately and the first output is discarded.
func ForBlock(seed int64, x, y, z int) *Source {
	s := seed ^ (int64(x)*341873128712 + int64(y)*789234511 + int64(z)*132897987541)
	r := &Source{state: s}
	r.Next()
	return r
}

// Next advances the generator.
func (r *Source) Next() int64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// IntN returns a value in [0, n). n must be positive.
func (r *Source) IntN(n int) int {
	return int(uint64(r.Next())>>33) % n
}

// Float32 returns a value in [0, 1).
func (r *Source) Float32() float32 {
	return float32(uint64(r.Next())>>40) / (1 << 24)
}
