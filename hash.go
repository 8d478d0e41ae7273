package hypex

import (
	"math/bits"

	"github.com/spaolacci/murmur3"
)

// Hashes are 32-bit murmur3. The top p bits pick the register, the remaining
// 32-p bits are the rank material. Rank results fit in a uint8 because the
// largest possible rank is 32-4+1 == 29.

func hash32(value []byte) uint32 {
	return murmur3.Sum32(value)
}

// slot splits a hash into its register index and rank. The rank is the
// number of leading zeros in the rank material plus one; all-zero material
// saturates at 32-p+1.
func slot(hash uint32, p uint) (idx uint32, rank uint8) {
	idx = uint32(extractShift(uint64(hash), 32-p, 31))

	// Shifting the index off the top leaves the rank material aligned at
	// bit 31, so its leading zeros are the material's leading zeros.
	material := hash << p
	if material == 0 {
		return idx, uint8(32-p) + 1
	}
	return idx, uint8(bits.LeadingZeros32(material)) + 1
}
