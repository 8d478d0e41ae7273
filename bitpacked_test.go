package hypex

import (
	"os"
	"testing"
)

// Sweep every register at several precisions so counter spans land at every
// byte alignment.
func TestBitpackedGetSet(t *testing.T) {
	for _, precision := range []uint{4, 5, 10, 12} {
		iterativeGetSet(t, precision)
	}
}

func TestBitpackedHuge(t *testing.T) {
	// Walking all 65536 registers through persistent Sets copies the
	// buffer each time. Quick enough, but gate the biggest sweep anyway.
	if len(os.Getenv("HYPEX_HUGE")) == 0 {
		t.Skip("Skipping the precision-16 sweep because HYPEX_HUGE isn't set")
		return
	}
	iterativeGetSet(t, 16)
}

func iterativeGetSet(t *testing.T, precision uint) {
	count := uint32(1) << precision

	// Counters narrower than a byte can only hold their width's worth.
	limit := uint32(256)
	if width := registerWidth(precision); width < 8 {
		limit = 1 << width
	}

	store := Bitpacked.New(precision).(bitpacked)
	for i := uint32(0); i < count; i++ {
		store.write(i, uint8(i%limit))
		if readBack := store.Get(i); readBack != uint8(i%limit) {
			t.Fatal(precision, i, readBack)
		}
	}

	// Neighbours must survive every write above.
	for i := uint32(0); i < count; i++ {
		if readBack := store.Get(i); readBack != uint8(i%limit) {
			t.Fatal(precision, i, readBack)
		}
	}
}

// Set must leave the original store untouched and only move one index.
func TestBitpackedSetIsPersistent(t *testing.T) {
	before := Bitpacked.New(4)
	before = before.Set(3, 7)

	after := before.Set(9, 21)

	if got := before.Get(9); got != 0 {
		t.Fatalf("original store saw the write: %d", got)
	}
	if got := after.Get(9); got != 21 {
		t.Fatalf("new store lost the write: %d", got)
	}
	for i := uint32(0); i < 16; i++ {
		if i == 9 {
			continue
		}
		if before.Get(i) != after.Get(i) {
			t.Fatalf("index %d drifted across Set", i)
		}
	}
}
