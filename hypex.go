package hypex

import (
	"math"

	"github.com/pkg/errors"
)

const (
	alpha_16 = 0.673
	alpha_32 = 0.697
	alpha_64 = 0.709

	// MinPrecision and MaxPrecision bound the accepted precision range.
	// DefaultPrecision is a sensible pick when callers have no opinion:
	// 65536 registers, ~0.4% standard error.
	MinPrecision     = 4
	MaxPrecision     = 16
	DefaultPrecision = 16
)

const two32 = float64(1 << 32)

// Error values returned by the package. Failure sites wrap these with call
// context, so match with errors.Is.
var (
	ErrInvalidPrecision  = errors.New("hypex: precision must be between 4 and 16")
	ErrInvalidSketch     = errors.New("hypex: sketch was not produced by a constructor")
	ErrIncompatibleMerge = errors.New("hypex: sketches must share precision and backend")
)

// Sketch is a HyperLogLog cardinality estimator. It is an immutable value:
// Update and Merge return a new Sketch and never modify their inputs, so a
// Sketch can be read from any number of goroutines without locking.
//
// The zero Sketch is not usable; build one with New, NewWith or
// NewFromRegisters.
type Sketch struct {
	precision uint      // p; the sketch keeps m = 2^p registers
	alpha     float64   // constant used in cardinality calculation
	backend   Backend   // storage flavor, fixed at construction
	registers Registers // the m registers
}

// New returns an empty sketch with the default bit-packed register storage.
// precision must be in [MinPrecision, MaxPrecision]; memory use and accuracy
// both grow with it.
func New(precision uint) (Sketch, error) {
	return NewWith(precision, Bitpacked)
}

// NewWith returns an empty sketch backed by the given storage backend. A nil
// backend falls back to Bitpacked.
func NewWith(precision uint, backend Backend) (Sketch, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return Sketch{}, errors.Wrapf(ErrInvalidPrecision, "got %d", precision)
	}
	if backend == nil {
		backend = Bitpacked
	}

	s := Sketch{
		precision: precision,
		alpha:     alphaFor(uint64(1) << precision),
		backend:   backend,
	}
	s.registers = backend.New(precision)
	return s, nil
}

// NewFromRegisters rebuilds a sketch from counters previously obtained via
// Registers().Export(). This is the seam for external persistence: callers
// store the flat counter slice however they like and reconstruct here.
func NewFromRegisters(precision uint, backend Backend, counters []uint8) (Sketch, error) {
	s, err := NewWith(precision, backend)
	if err != nil {
		return Sketch{}, err
	}

	if uint64(len(counters)) != uint64(1)<<precision {
		return Sketch{}, errors.Wrapf(ErrInvalidSketch,
			"expected %d counters, got %d", uint64(1)<<precision, len(counters))
	}
	maxRank := uint8(32-precision) + 1
	for i, val := range counters {
		if val > maxRank {
			return Sketch{}, errors.Wrapf(ErrInvalidSketch,
				"counter %d holds %d, above the maximum rank %d", i, val, maxRank)
		}
	}

	s.registers = s.backend.Import(precision, counters)
	return s, nil
}

// alphaFor returns the bias constant for m registers. m below 16 cannot
// occur because precision is at least 4.
func alphaFor(m uint64) float64 {
	switch m {
	case 16:
		return alpha_16
	case 32:
		return alpha_32
	case 64:
		return alpha_64
	default:
		return 0.7213 / (1.0 + 1.079/float64(m))
	}
}

// Precision returns the sketch's precision p.
func (s Sketch) Precision() uint { return s.precision }

// Backend returns the sketch's storage backend.
func (s Sketch) Backend() Backend { return s.backend }

// Registers returns the sketch's register store. The store is persistent, so
// handing it out cannot break the sketch; callers typically want Export to
// move state elsewhere.
func (s Sketch) Registers() Registers { return s.registers }

// Update feeds one element into the sketch and returns the resulting sketch.
//
// The element is hashed internally, so pass the raw bytes of whatever is
// being counted. Feeding a value the sketch has already absorbed returns the
// receiver as-is, without touching register storage; duplicates dominate
// real streams and must cost nothing.
func (s Sketch) Update(value []byte) (Sketch, error) {
	if s.registers == nil {
		return Sketch{}, errors.Wrap(ErrInvalidSketch, "update")
	}

	idx, rank := slot(hash32(value), s.precision)
	if rank <= s.registers.Get(idx) {
		return s, nil
	}

	s.registers = s.registers.Set(idx, rank)
	return s, nil
}

// UpdateString is Update for string elements.
func (s Sketch) UpdateString(value string) (Sketch, error) {
	return s.Update([]byte(value))
}

// Cardinality returns the estimated number of distinct elements fed to the
// sketch so far. The estimate is never negative; round as needed for
// display.
func (s Sketch) Cardinality() (float64, error) {
	if s.registers == nil {
		return 0, errors.Wrap(ErrInvalidSketch, "cardinality")
	}

	// Single pass accumulating the harmonic sum and the zero-register
	// count; both folds are order-insensitive.
	inverseSum := float64(0)
	zeroCount := float64(0)
	s.registers.Reduce(func(val uint8) {
		inverseSum += 1 / math.Pow(2, float64(val))
		if val == 0 {
			zeroCount++
		}
	})

	m := float64(uint64(1) << s.precision)
	raw := s.alpha * m * m / inverseSum

	switch {
	case raw <= 2.5*m:
		// Small range. With empty registers present, linear counting
		// beats the raw estimate.
		if zeroCount == 0 {
			return raw, nil
		}
		return m * math.Log(m/zeroCount), nil
	case raw <= two32/30:
		// Intermediate range, no correction needed.
		return raw, nil
	default:
		// Large range: correct for 32-bit hash space saturation.
		return -two32 * math.Log(1-raw/two32), nil
	}
}

// Merge combines one or more sketches into the sketch of the union of their
// input streams. All inputs must share precision and backend; merging
// sharded sketches after parallel ingestion is the intended use. The union
// register at each index is the maximum across the inputs at that index, so
// merging is associative and commutative in its result.
func Merge(sketches ...Sketch) (Sketch, error) {
	if len(sketches) == 0 {
		return Sketch{}, errors.Wrap(ErrIncompatibleMerge, "no sketches given")
	}

	head := sketches[0]
	if head.registers == nil {
		return Sketch{}, errors.Wrap(ErrInvalidSketch, "merge")
	}
	for _, s := range sketches[1:] {
		if s.registers == nil {
			return Sketch{}, errors.Wrap(ErrInvalidSketch, "merge")
		}
		if s.precision != head.precision {
			return Sketch{}, errors.Wrapf(ErrIncompatibleMerge,
				"precision %d vs %d", head.precision, s.precision)
		}
		if s.backend.Name() != head.backend.Name() {
			return Sketch{}, errors.Wrapf(ErrIncompatibleMerge,
				"backend %q vs %q", head.backend.Name(), s.backend.Name())
		}
	}

	if len(sketches) == 1 {
		return head, nil
	}

	merged := head.registers.Export()
	for _, s := range sketches[1:] {
		for i, val := range s.registers.Export() {
			merged[i] = maxU8(merged[i], val)
		}
	}

	head.registers = head.backend.Import(head.precision, merged)
	return head, nil
}
