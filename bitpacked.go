package hypex

// bitpacked is the dense register store: 2^p counters packed back to back at
// width bits each into a byte slice. A counter may straddle up to three
// bytes (width is at most 16 and a counter can start anywhere in a byte), so
// Get and Set walk the spanned bytes low-order chunk first.
type bitpacked struct {
	count uint32
	width uint
	bits  []byte
}

type bitpackedBackend struct{}

func (bitpackedBackend) Name() string { return "bitpacked" }

func (bitpackedBackend) New(precision uint) Registers {
	count := uint32(1) << precision
	width := registerWidth(precision)
	numBytes := (uint64(count)*uint64(width) + 7) / 8 // round up to whole bytes
	return bitpacked{count: count, width: width, bits: make([]byte, numBytes)}
}

func (b bitpackedBackend) Import(precision uint, counters []uint8) Registers {
	store := b.New(precision).(bitpacked)
	for i, val := range counters {
		store.write(uint32(i), val)
	}
	return store
}

// This function assumes that idx is within range. It may panic if not.
func (b bitpacked) Get(idx uint32) uint8 {
	bitIdx := uint64(idx) * uint64(b.width)
	byteIdx := bitIdx / 8
	startBit := uint(bitIdx % 8)

	var val uint32
	var got uint
	for got < b.width {
		take := minUint(b.width-got, 8-startBit)
		chunk := (uint32(b.bits[byteIdx]) >> startBit) & uint32(onesFromTo(0, take-1))
		val |= chunk << got
		got += take
		byteIdx++
		startBit = 0
	}
	return uint8(val)
}

func (b bitpacked) Set(idx uint32, val uint8) Registers {
	next := bitpacked{count: b.count, width: b.width, bits: make([]byte, len(b.bits))}
	copy(next.bits, b.bits)
	next.write(idx, val)
	return next
}

// write mutates the receiver's buffer and is only called on stores that no
// caller can observe yet (freshly copied in Set, freshly built in Import).
func (b bitpacked) write(idx uint32, val uint8) {
	bitIdx := uint64(idx) * uint64(b.width)
	byteIdx := bitIdx / 8
	startBit := uint(bitIdx % 8)

	v := uint32(val)
	var put uint
	for put < b.width {
		take := minUint(b.width-put, 8-startBit)
		mask := uint8(onesFromTo(0, take-1)) << startBit
		cleared := b.bits[byteIdx] &^ mask // Clear bits holding this chunk.
		b.bits[byteIdx] = cleared | (uint8(v>>put)<<startBit)&mask
		put += take
		byteIdx++
		startBit = 0
	}
}

func (b bitpacked) Export() []uint8 {
	out := make([]uint8, b.count)
	for i := uint32(0); i < b.count; i++ {
		out[i] = b.Get(i)
	}
	return out
}

func (b bitpacked) Reduce(fn func(val uint8)) {
	for i := uint32(0); i < b.count; i++ {
		fn(b.Get(i))
	}
}
