package types

import (
	"testing"
	"unsafe"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/cluster"
)

func TestFormatErrorSource(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		description string
		want        string
	}{
		{"empty description", "plugin", "", "plugin"},
		{"with description", "plugin", "An Error Occured", "plugin\n<ERR>\nAn Error Occured"},
		{"empty source", "", "An Error Occured", "<ERR>\nAn Error Occured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatErrorSource(tt.source, tt.description); got != tt.want {
				t.Errorf("formatErrorSource(%q, %q) = %q, want %q",
					tt.source, tt.description, got, tt.want)
			}
		})
	}
}

// clusterBuffer builds a zeroed record buffer sized to the active
// build's error-cluster layout.
func clusterBuffer() []byte {
	l := cluster.NewHostLayout()
	cluster.Append[Bool](l)
	cluster.Append[int32](l)
	cluster.Append[lvruntime.UHandle](l)
	return make([]byte, l.Size())
}

func TestErrorClusterSetError(t *testing.T) {
	m := newHost(t)
	buf := clusterBuffer()
	base := unsafe.Pointer(&buf[0])

	ec := NewErrorCluster(m, base)
	if ec.Status() {
		t.Fatal("fresh cluster reports an error")
	}

	if err := ec.SetError(lvruntime.BogusErr, "plugin", "device unplugged"); err != nil {
		t.Fatalf("SetError: %v", err)
	}

	if !ec.Status() {
		t.Error("Status = false after SetError")
	}
	if got := ec.Code(); got != lvruntime.BogusErr {
		t.Errorf("Code = %d, want %d", got, lvruntime.BogusErr)
	}
	src, err := ec.Source()
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if want := "plugin\n<ERR>\ndevice unplugged"; src != want {
		t.Errorf("Source = %q, want %q", src, want)
	}
}

func TestErrorClusterSetWarning(t *testing.T) {
	m := newHost(t)
	buf := clusterBuffer()
	base := unsafe.Pointer(&buf[0])

	ec := NewErrorCluster(m, base)
	if err := ec.SetWarning(lvruntime.MgArgErr, "", "minor issue"); err != nil {
		t.Fatalf("SetWarning: %v", err)
	}

	if ec.Status() {
		t.Error("Status = true after SetWarning")
	}
	if got := ec.Code(); got != lvruntime.MgArgErr {
		t.Errorf("Code = %d, want %d", got, lvruntime.MgArgErr)
	}
	src, err := ec.Source()
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if want := "<ERR>\nminor issue"; src != want {
		t.Errorf("Source = %q, want %q", src, want)
	}
}

func TestErrorClusterReusesSourceHandle(t *testing.T) {
	m := newHost(t)
	buf := clusterBuffer()
	base := unsafe.Pointer(&buf[0])

	ec := NewErrorCluster(m, base)
	if err := ec.SetError(lvruntime.MgArgErr, "first", ""); err != nil {
		t.Fatal(err)
	}
	handles := m.ActiveHandles()

	if err := ec.SetError(lvruntime.BogusErr, "second", ""); err != nil {
		t.Fatal(err)
	}
	if got := m.ActiveHandles(); got != handles {
		t.Errorf("second SetError changed handle count %d -> %d; want source handle reuse", handles, got)
	}
	if src, _ := ec.Source(); src != "second" {
		t.Errorf("Source = %q, want %q", src, "second")
	}
}

func TestErrorClusterNilBase(t *testing.T) {
	m := newHost(t)
	ec := NewErrorCluster(m, nil)

	if ec.Status() {
		t.Error("nil-base Status = true")
	}
	if got := ec.Code(); got != lvruntime.MgNoErr {
		t.Errorf("nil-base Code = %d", got)
	}
	if err := ec.SetError(lvruntime.BogusErr, "x", "y"); err != nil {
		t.Errorf("nil-base SetError = %v, want nil", err)
	}
	if src, err := ec.Source(); err != nil || src != "" {
		t.Errorf("nil-base Source = %q, %v", src, err)
	}
}
