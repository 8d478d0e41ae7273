package hypex

// autoArray is the auto-growing register store: one byte per counter, with
// the backing slice only as long as the highest index ever written. Reads
// past the grown region return zero, so a fresh store allocates nothing per
// register until updates arrive.
type autoArray struct {
	count uint32
	vals  []uint8
}

type arrayBackend struct{}

func (arrayBackend) Name() string { return "array" }

func (arrayBackend) New(precision uint) Registers {
	return autoArray{count: uint32(1) << precision}
}

func (arrayBackend) Import(precision uint, counters []uint8) Registers {
	vals := make([]uint8, len(counters))
	copy(vals, counters)
	return autoArray{count: uint32(1) << precision, vals: vals}
}

func (a autoArray) Get(idx uint32) uint8 {
	if idx >= uint32(len(a.vals)) {
		return 0
	}
	return a.vals[idx]
}

func (a autoArray) Set(idx uint32, val uint8) Registers {
	grown := uint32(len(a.vals))
	if idx >= grown {
		grown = idx + 1
	}
	next := autoArray{count: a.count, vals: make([]uint8, grown)}
	copy(next.vals, a.vals)
	next.vals[idx] = val
	return next
}

func (a autoArray) Export() []uint8 {
	out := make([]uint8, a.count)
	copy(out, a.vals)
	return out
}

func (a autoArray) Reduce(fn func(val uint8)) {
	for i := uint32(0); i < a.count; i++ {
		fn(a.Get(i))
	}
}
