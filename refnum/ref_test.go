package refnum_test

import (
	"context"
	"errors"
	"testing"
	"unsafe"

	lverrors "github.com/lvkit/lv-runtime/errors"
	"github.com/lvkit/lv-runtime/manager"
	"github.com/lvkit/lv-runtime/refnum"
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

func kindIs(err error, phase lverrors.Phase, kind lverrors.Kind) bool {
	return errors.Is(err, &lverrors.Error{Phase: phase, Kind: kind})
}

func TestCreateDisposeWithoutLockNeverUnlocks(t *testing.T) {
	tr := manager.NewTrace(newHost(t))

	ref, err := refnum.New[int32](tr, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	ref.Close()
	ref.Close()

	if got := tr.Count(manager.OpUnlockRef); got != 0 {
		t.Errorf("UnlockRef calls = %d, want 0", got)
	}
	if got := tr.Count(manager.OpDisposeRef); got != 1 {
		t.Errorf("DisposeRef calls = %d, want 1", got)
	}
}

func TestLockUnlockPairing(t *testing.T) {
	tr := manager.NewTrace(newHost(t))

	ref, err := refnum.New[int32](tr, nil, 1)
	if err != nil {
		t.Fatal(err)
	}

	pin, err := ref.Lock()
	if err != nil {
		t.Fatal(err)
	}
	pin.Unlock()
	pin.Unlock() // idempotent
	ref.Close()

	if got := tr.Count(manager.OpUnlockRef); got != 1 {
		t.Errorf("UnlockRef calls = %d, want exactly 1", got)
	}
	if got := tr.Count(manager.OpDisposeRef); got != 1 {
		t.Errorf("DisposeRef calls = %d, want 1", got)
	}

	// Unlock must precede dispose in the recorded order.
	var unlockIdx, disposeIdx int
	for i, c := range tr.Calls() {
		switch c.Op {
		case manager.OpUnlockRef:
			unlockIdx = i
		case manager.OpDisposeRef:
			disposeIdx = i
		}
	}
	if unlockIdx > disposeIdx {
		t.Error("UnlockRef recorded after DisposeRef")
	}
}

func TestLockAfterCloseNeverReachesManager(t *testing.T) {
	tr := manager.NewTrace(newHost(t))

	ref, err := refnum.New[int32](tr, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	ref.Close()
	tr.Reset()

	_, err = ref.Lock()
	if !kindIs(err, lverrors.PhaseLock, lverrors.KindUseAfterDispose) {
		t.Fatalf("Lock after Close = %v, want use_after_dispose", err)
	}
	if got := tr.Count(manager.OpLockRef); got != 0 {
		t.Errorf("LockRef reached the manager %d times after dispose", got)
	}
}

func TestLockFailureCarriesStatus(t *testing.T) {
	host := newHost(t)

	ref, err := refnum.New[int32](host, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()

	host.FailNextLock()
	_, err = ref.Lock()
	if !kindIs(err, lverrors.PhaseLock, lverrors.KindLockFailed) {
		t.Fatalf("error = %v, want lock_failed", err)
	}
	var le *lverrors.Error
	if !errors.As(err, &le) || le.Status == 0 {
		t.Errorf("lock error does not carry the manager status: %v", err)
	}
}

func TestHostSideInvalidation(t *testing.T) {
	host := newHost(t)

	ref, err := refnum.New[int32](host, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()

	// Host code kills the reference behind the wrapper's back.
	host.Invalidate(ref.Cookie())

	if _, err := ref.Lock(); !kindIs(err, lverrors.PhaseLock, lverrors.KindLockFailed) {
		t.Errorf("Lock on invalidated ref = %v, want lock_failed", err)
	}
}

func TestValueRoundTripThroughPayload(t *testing.T) {
	host := newHost(t)

	var payload [16]byte
	ref, err := refnum.New[int32](host, unsafe.Pointer(&payload[0]), 3)
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()

	pin, err := ref.Lock()
	if err != nil {
		t.Fatal(err)
	}
	pin.SetValue(-77)
	if got := pin.Value(); got != -77 {
		t.Errorf("Value = %d, want -77", got)
	}
	pin.Unlock()

	// The write went through the descriptor the host stored.
	if payload[0] == 0 && payload[1] == 0 && payload[2] == 0 && payload[3] == 0 {
		t.Error("payload bytes untouched by SetValue")
	}
}

func TestDetachSkipsDispose(t *testing.T) {
	host := newHost(t)
	tr := manager.NewTrace(host)

	ref, err := refnum.New[int32](tr, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	cookie, err := ref.Detach()
	if err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if cookie == 0 {
		t.Fatal("Detach returned zero cookie")
	}
	ref.Close()

	if got := tr.Count(manager.OpDisposeRef); got != 0 {
		t.Errorf("DisposeRef calls after Detach = %d, want 0", got)
	}
	if got := host.ActiveRefs(); got != 1 {
		t.Errorf("host ref count = %d, want 1 (still host-owned)", got)
	}
	if st := host.DisposeRef(cookie); !st.OK() {
		t.Errorf("host dispose of detached ref: mgerr %d", st)
	}
}

func TestCreationFailureCarriesStatus(t *testing.T) {
	host := newHost(t)
	host.FailNextNewRef()

	_, err := refnum.New[int32](host, nil, 1)
	if !kindIs(err, lverrors.PhaseRef, lverrors.KindRefCreationFailed) {
		t.Fatalf("error = %v, want ref_creation_failed", err)
	}
	var le *lverrors.Error
	if !errors.As(err, &le) || le.Status == 0 {
		t.Errorf("creation error does not carry the manager status: %v", err)
	}
}

func TestSequentialLocks(t *testing.T) {
	host := newHost(t)

	ref, err := refnum.New[int32](host, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()

	a, err := ref.Lock()
	if err != nil {
		t.Fatal(err)
	}
	b, err := ref.Lock()
	if err != nil {
		t.Fatalf("second concurrent lock: %v", err)
	}
	if got := host.RefLocks(ref.Cookie()); got != 2 {
		t.Errorf("host lock count = %d, want 2", got)
	}
	b.Unlock()
	a.Unlock()
	if got := host.RefLocks(ref.Cookie()); got != 0 {
		t.Errorf("host lock count after unlocks = %d, want 0", got)
	}
}

func TestPinUseAfterUnlockPanics(t *testing.T) {
	host := newHost(t)

	ref, err := refnum.New[int32](host, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()

	pin, err := ref.Lock()
	if err != nil {
		t.Fatal(err)
	}
	pin.Unlock()

	defer func() {
		if recover() == nil {
			t.Error("Ptr after Unlock did not panic")
		}
	}()
	_ = pin.Ptr()
}
