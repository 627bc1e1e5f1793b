package types

import (
	"math"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/cluster"
	"github.com/lvkit/lv-runtime/errors"
	"github.com/lvkit/lv-runtime/memory"
)

// The host's string format (LStr) is a handle whose block starts with an
// i32 byte length followed by that many bytes, no terminator. The length
// header sits at offset 0 and the bytes at offset 4 regardless of
// packing mode, so the accessors below work on both.

var lstrLen = cluster.FieldAt[int32](0)

const lstrHeader = 4

// ReadLStr reads the host string inside a byte handle.
func ReadLStr(h *memory.Handle[byte]) (string, error) {
	view, err := h.Lock()
	if err != nil {
		return "", err
	}
	defer view.Unlock()

	buf := view.Slice()
	if len(buf) < lstrHeader {
		return "", nil
	}
	n := int(lstrLen.Read(view.Ptr()))
	if n <= 0 {
		return "", nil
	}
	if n > len(buf)-lstrHeader {
		n = len(buf) - lstrHeader
	}
	return string(buf[lstrHeader : lstrHeader+n]), nil
}

// WriteLStr resizes a byte handle to fit s and stores it in the host
// string format. Strings longer than the i32 length header can express
// are rejected before the handle is touched.
func WriteLStr(h *memory.Handle[byte], s string) error {
	if len(s) > math.MaxInt32-lstrHeader {
		return errors.New(errors.PhaseResize, errors.KindOutOfRange).
			Detail("string length %d overflows the i32 length header", len(s)).
			Build()
	}
	if err := h.Resize(lstrHeader + len(s)); err != nil {
		return err
	}
	view, err := h.Lock()
	if err != nil {
		return err
	}
	defer view.Unlock()

	lstrLen.Write(view.Ptr(), int32(len(s)))
	copy(view.Slice()[lstrHeader:], s)
	return nil
}

// NewLStr allocates a fresh host string handle holding s.
func NewLStr(m lvruntime.Manager, s string) (*memory.Handle[byte], error) {
	h, err := memory.Allocate[byte](m, lstrHeader+len(s))
	if err != nil {
		return nil, err
	}
	if err := WriteLStr(h, s); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}
