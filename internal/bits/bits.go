// Package bits provides low-level integer arithmetic primitives.
package bits

import "math/bits"

// FastRange64 maps a 64-bit hash uniformly to [0, n).
// Uses the "fastrange" technique: multiply and take the high word.
// This is the standard way to map hashes to ranges without modulo bias.
func FastRange64(hash, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(hash, n)
	return hi
}

// CeilDiv returns ⌈a/b⌉ for a >= 0 and b > 0.
// Returns 0 when b <= 0.
func CeilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
