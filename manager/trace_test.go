package manager

import (
	"testing"

	lvruntime "github.com/lvkit/lv-runtime"
)

func TestTraceRecordsCalls(t *testing.T) {
	tr := NewTrace(&stubManager{})

	h, st := tr.NewHandle(16)
	if !st.OK() {
		t.Fatalf("NewHandle status %d", st)
	}
	tr.HandleSize(h)
	tr.SetHandleSize(h, 32)
	tr.DisposeHandle(h)

	calls := tr.Calls()
	wantOps := []Op{OpNewHandle, OpHandleSize, OpSetHandleSize, OpDisposeHandle}
	if len(calls) != len(wantOps) {
		t.Fatalf("recorded %d calls, want %d", len(calls), len(wantOps))
	}
	for i, op := range wantOps {
		if calls[i].Op != op {
			t.Errorf("call %d = %s, want %s", i, calls[i].Op, op)
		}
	}

	if calls[2].Size != 32 {
		t.Errorf("resize call size = %d, want 32", calls[2].Size)
	}
}

func TestTraceCountAndReset(t *testing.T) {
	tr := NewTrace(&stubManager{})

	c, _ := tr.NewRef(nil, 7)
	p, st := tr.LockRef(c)
	if p == nil || !st.OK() {
		t.Fatalf("LockRef: ptr=%v status=%d", p, st)
	}
	tr.UnlockRef(c)
	tr.UnlockRef(c)
	tr.DisposeRef(c)

	if got := tr.Count(OpUnlockRef); got != 2 {
		t.Errorf("Count(UnlockRef) = %d, want 2", got)
	}
	if got := tr.Count(OpDisposeRef); got != 1 {
		t.Errorf("Count(DisposeRef) = %d, want 1", got)
	}

	tr.Reset()
	if got := len(tr.Calls()); got != 0 {
		t.Errorf("calls after Reset = %d, want 0", got)
	}
	if got := tr.Count(OpNewRef); got != 0 {
		t.Errorf("Count after Reset = %d, want 0", got)
	}
}

var _ lvruntime.Manager = (*Trace)(nil)
