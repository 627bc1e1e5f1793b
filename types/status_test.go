package types

import (
	"strings"
	"testing"

	lvruntime "github.com/lvkit/lv-runtime"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		code     lvruntime.MgErr
		contains string
	}{
		{lvruntime.MgNoErr, "no error"},
		{lvruntime.MgArgErr, "mgArgErr"},
		{lvruntime.MFullErr, "mFullErr"},
		{lvruntime.BogusErr, "bogusError"},
		{1234, "1234"},
	}

	for _, tt := range tests {
		if got := StatusString(tt.code); !strings.Contains(got, tt.contains) {
			t.Errorf("StatusString(%d) = %q, want it to contain %q", tt.code, got, tt.contains)
		}
	}
}
