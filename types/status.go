package types

import (
	"strconv"

	lvruntime "github.com/lvkit/lv-runtime"
)

// StatusString names the manager status codes this layer works with;
// unknown codes render numerically.
func StatusString(e lvruntime.MgErr) string {
	switch e {
	case lvruntime.MgNoErr:
		return "no error"
	case lvruntime.MgArgErr:
		return "invalid argument (mgArgErr)"
	case lvruntime.MFullErr:
		return "memory full (mFullErr)"
	case lvruntime.BogusErr:
		return "generic error (bogusError)"
	default:
		return "mgerr " + strconv.FormatInt(int64(e), 10)
	}
}
