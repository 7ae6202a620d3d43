package engine

import "hash/fnv"

// FastRNG is a per-program splitmix64 generator. It is not safe for
// concurrent use; every Program owns its own.
type FastRNG struct {
	state uint64
}

func NewFastRNG(seed int64) *FastRNG {
	return &FastRNG{state: uint64(seed)}
}

func (r *FastRNG) Uint64() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a value in [0, 1).
func (r *FastRNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// DeriveSeed mixes a base seed with a key and an index so that every
// (configuration, repetition) pair gets an independent, reproducible stream
// regardless of scheduling order.
func DeriveSeed(base int64, key string, index int) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	mixed := NewFastRNG(base ^ int64(h.Sum64()) ^ int64(index)*0x5851f42d4c957f2d)
	return int64(mixed.Uint64())
}
