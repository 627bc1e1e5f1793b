package types

import (
	"unsafe"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/cluster"
	"github.com/lvkit/lv-runtime/memory"
)

// The host's error cluster is {status Bool, code i32, source LStr
// handle}. Under 32-bit packing the code lands at offset 1 and the
// source handle at offset 5, so all access goes through cluster fields.
var errStatus, errCode, errSource = errorClusterFields()

func errorClusterFields() (cluster.Field[Bool], cluster.Field[int32], cluster.Field[lvruntime.UHandle]) {
	l := cluster.NewHostLayout()
	status := cluster.Append[Bool](l)
	code := cluster.Append[int32](l)
	source := cluster.Append[lvruntime.UHandle](l)
	return status, code, source
}

// ErrorCluster gives structured access to a host error cluster the host
// passed in by pointer. The cluster and its source string handle stay
// host-owned throughout: writes update them in place and never dispose.
type ErrorCluster struct {
	m    lvruntime.Manager
	base unsafe.Pointer
}

// NewErrorCluster binds an accessor to a cluster pointer received at the
// boundary. A nil base yields an accessor whose reads report no error
// and whose writes are dropped.
func NewErrorCluster(m lvruntime.Manager, base unsafe.Pointer) *ErrorCluster {
	return &ErrorCluster{m: m, base: base}
}

// Status reports whether the cluster is in an error state.
func (c *ErrorCluster) Status() bool {
	if c.base == nil {
		return false
	}
	return errStatus.Read(c.base).Bool()
}

// Code returns the cluster's status code.
func (c *ErrorCluster) Code() lvruntime.MgErr {
	if c.base == nil {
		return lvruntime.MgNoErr
	}
	return lvruntime.MgErr(errCode.Read(c.base))
}

// Source returns the cluster's source text, or "" when the source
// handle is nil.
func (c *ErrorCluster) Source() (string, error) {
	if c.base == nil {
		return "", nil
	}
	raw := errSource.Read(c.base)
	if raw == 0 {
		return "", nil
	}
	h := memory.Wrap[byte](c.m, raw)
	s, err := ReadLStr(h)
	if err != nil {
		return "", err
	}
	if _, err := h.Detach(); err != nil {
		return "", err
	}
	return s, nil
}

// SetError puts the cluster into an error state.
func (c *ErrorCluster) SetError(code lvruntime.MgErr, source, description string) error {
	return c.set(True, code, source, description)
}

// SetWarning sets a code and source without flagging an error.
func (c *ErrorCluster) SetWarning(code lvruntime.MgErr, source, description string) error {
	return c.set(False, code, source, description)
}

func (c *ErrorCluster) set(status Bool, code lvruntime.MgErr, source, description string) error {
	if c.base == nil {
		return nil
	}
	errStatus.Write(c.base, status)
	errCode.Write(c.base, int32(code))
	return c.setSource(formatErrorSource(source, description))
}

// setSource writes into the cluster's source string handle, allocating
// one if the host passed the cluster with a nil source. Ownership stays
// with the host either way.
func (c *ErrorCluster) setSource(full string) error {
	raw := errSource.Read(c.base)
	if raw == 0 {
		h, err := NewLStr(c.m, full)
		if err != nil {
			return err
		}
		raw, err = h.Detach()
		if err != nil {
			return err
		}
		errSource.Write(c.base, raw)
		return nil
	}

	h := memory.Wrap[byte](c.m, raw)
	if err := WriteLStr(h, full); err != nil {
		return err
	}
	// The handle value may have moved during the resize on some hosts;
	// write it back either way.
	raw, err := h.Detach()
	if err != nil {
		return err
	}
	errSource.Write(c.base, raw)
	return nil
}

// formatErrorSource renders source and description the way the host
// displays them: description separated by an <ERR> marker line.
func formatErrorSource(source, description string) string {
	switch {
	case source == "":
		return "<ERR>\n" + description
	case description == "":
		return source
	default:
		return source + "\n<ERR>\n" + description
	}
}
