// Package hash implements the fast modular hash used to bucket text n-grams into feature slots.
package hash

// Hash maps n into the range 0 to max-1 using salt s.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mixing stage, mix input with salt using subtraction
	var m = uint32(n) - uint32(s)

	// hashing stage, use xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mixing stage 2, mix input with salt using addition
	m += s

	// modular stage, Daniel Lemire's multiply shift instead of a division
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// String folds str into 32 bits (FNV-1a) and buckets it with Hash.
func String(str string, s uint32, max uint32) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(str); i++ {
		h ^= uint32(str[i])
		h *= 16777619
	}
	return Hash(h, s, max)
}

// Strings buckets every string of in into out, which must be at least as long.
func Strings(out []uint32, in []string, s uint32, max uint32) {
	for i := range in {
		out[i] = String(in[i], s, max)
	}
}
