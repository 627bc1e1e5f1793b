package types

import (
	"context"
	stderrors "errors"
	"math"
	"testing"
	"unsafe"

	lverrors "github.com/lvkit/lv-runtime/errors"
	"github.com/lvkit/lv-runtime/memory"
	"github.com/lvkit/lv-runtime/simhost"
)

func newHost(t *testing.T) *simhost.Manager {
	t.Helper()
	ctx := context.Background()
	m, err := simhost.New(ctx)
	if err != nil {
		t.Fatalf("simhost.New: %v", err)
	}
	t.Cleanup(func() {
		if err := m.Close(ctx); err != nil {
			t.Errorf("simhost close: %v", err)
		}
	})
	return m
}

func TestLStrRoundTrip(t *testing.T) {
	m := newHost(t)

	for _, s := range []string{"", "x", "hello, host", "with\nnewline and \x00 byte"} {
		h, err := NewLStr(m, s)
		if err != nil {
			t.Fatalf("NewLStr(%q): %v", s, err)
		}
		got, err := ReadLStr(h)
		if err != nil {
			t.Fatalf("ReadLStr(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("round trip = %q, want %q", got, s)
		}
		h.Close()
	}
}

func TestWriteLStrResizesInPlace(t *testing.T) {
	m := newHost(t)

	h, err := NewLStr(m, "short")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	long := "a considerably longer replacement string"
	if err := WriteLStr(h, long); err != nil {
		t.Fatalf("WriteLStr grow: %v", err)
	}
	if got, _ := ReadLStr(h); got != long {
		t.Errorf("after grow = %q, want %q", got, long)
	}

	if err := WriteLStr(h, "s"); err != nil {
		t.Fatalf("WriteLStr shrink: %v", err)
	}
	if got, _ := ReadLStr(h); got != "s" {
		t.Errorf("after shrink = %q, want %q", got, "s")
	}
}

func TestWriteLStrRejectsOversizedString(t *testing.T) {
	if unsafe.Sizeof(0) < 8 {
		t.Skip("string length cannot exceed the header range on this build")
	}
	m := newHost(t)

	h, err := NewLStr(m, "keep")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	// A string header longer than the i32 range, never dereferenced:
	// the length guard must fire before any access.
	var b byte
	n := math.MaxInt32
	huge := unsafe.String(&b, n+1)

	err = WriteLStr(h, huge)
	if !stderrors.Is(err, &lverrors.Error{Phase: lverrors.PhaseResize, Kind: lverrors.KindOutOfRange}) {
		t.Fatalf("WriteLStr = %v, want out_of_range", err)
	}
	if got, _ := ReadLStr(h); got != "keep" {
		t.Errorf("handle contents after refused write = %q, want %q", got, "keep")
	}
}

func TestReadLStrOnUndersizedHandle(t *testing.T) {
	m := newHost(t)

	h, err := memory.Allocate[byte](m, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	got, err := ReadLStr(h)
	if err != nil {
		t.Fatalf("ReadLStr: %v", err)
	}
	if got != "" {
		t.Errorf("undersized handle read = %q, want empty", got)
	}
}
