package hypex

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestArrayGrowsOnDemand(t *testing.T) {
	store := Array.New(10)

	// Nothing written yet: every index reads zero off an empty slice.
	assert.Equal(t, 0, len(store.(autoArray).vals))
	assert.Equal(t, uint8(0), store.Get(1023))

	store = store.Set(100, 9)
	assert.Equal(t, 101, len(store.(autoArray).vals))
	assert.Equal(t, uint8(9), store.Get(100))

	// Reads past the grown region still default to zero.
	assert.Equal(t, uint8(0), store.Get(101))
	assert.Equal(t, uint8(0), store.Get(1023))
}

func TestArrayExportPadsToFullLength(t *testing.T) {
	store := Array.New(4).Set(2, 5)

	exported := store.Export()
	assert.Equal(t, 16, len(exported))
	assert.Equal(t, uint8(5), exported[2])
	for i, val := range exported {
		if i != 2 {
			assert.Equal(t, uint8(0), val)
		}
	}
}

func TestArraySetIsPersistent(t *testing.T) {
	before := Array.New(4).Set(3, 7)
	after := before.Set(3, 9)

	assert.Equal(t, uint8(7), before.Get(3))
	assert.Equal(t, uint8(9), after.Get(3))
}

func TestArrayReduceVisitsUngrownRegion(t *testing.T) {
	store := Array.New(4).Set(0, 2)

	visits := 0
	store.Reduce(func(val uint8) { visits++ })
	assert.Equal(t, 16, visits)
}
