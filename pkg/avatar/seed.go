package avatar

// SeedPrefixLen is the number of leading runes that contribute to the seed.
const SeedPrefixLen = 10

// DeriveSeed sums the code points of the first SeedPrefixLen runes of
// identifier with wrapping uint32 addition. It is a stable, simple mix, not a
// hash with any security property. The empty string yields 0.
func DeriveSeed(identifier string) uint32 {
	var seed uint32
	n := 0
	for _, r := range identifier {
		if n == SeedPrefixLen {
			break
		}
		seed += uint32(r)
		n++
	}
	return seed
}
