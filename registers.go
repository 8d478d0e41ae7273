package hypex

import "math/bits"

// Registers is the storage contract for a sketch's counter array. A store
// holds 2^p counters, each a registerWidth(p)-bit unsigned value. Stores are
// persistent: Set returns the store holding the new value and never mutates
// the receiver, though implementations may share unchanged state between the
// old and new values.
type Registers interface {
	// Get returns the counter at idx. idx must be in [0, 2^p).
	Get(idx uint32) uint8

	// Set returns a store with val written at idx. Every other index must
	// read back unchanged, from both the returned store and the receiver.
	Set(idx uint32, val uint8) Registers

	// Export returns all counters as a flat slice in index order. The
	// result must round-trip losslessly through Backend.Import.
	Export() []uint8

	// Reduce calls fn once per counter in ascending index order.
	// Accumulation happens in fn's closure; fn must be insensitive to
	// visit order, which leaves implementations free to parallelize.
	Reduce(fn func(val uint8))
}

// Backend constructs register stores of one storage flavor. It is the
// extension point for adding storage variants: implement Backend and
// Registers and pass the backend to NewWith. Two sketches can only be
// merged when their backends report the same Name.
type Backend interface {
	// Name identifies the storage flavor.
	Name() string

	// New allocates 2^precision zeroed counters.
	New(precision uint) Registers

	// Import rebuilds a store from a slice previously produced by Export.
	// len(counters) must equal 2^precision.
	Import(precision uint, counters []uint8) Registers
}

// Backends shipped with the package. Bitpacked is the default: m registers
// packed at registerWidth(p) bits each. Array trades memory for simplicity,
// one byte per register, grown on demand.
var (
	Bitpacked Backend = bitpackedBackend{}
	Array     Backend = arrayBackend{}
)

// registerWidth returns the bit width of one counter. The canonical width
// is p itself, but the largest possible rank is 32-p+1, which overflows a
// 4-bit register at p=4. The width is bumped to fit the maximum rank, so
// only p=4 deviates from the canonical layout (5 bits instead of 4).
func registerWidth(p uint) uint {
	rankBits := uint(bits.Len32(uint32(32 - p + 1)))
	if rankBits > p {
		return rankBits
	}
	return p
}
