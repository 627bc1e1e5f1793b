package boundary

import (
	stderrors "errors"
	"unsafe"

	"go.uber.org/zap"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/errors"
	"github.com/lvkit/lv-runtime/manager"
	"github.com/lvkit/lv-runtime/types"
)

// Call runs one host entry point under the host's error convention: fn
// is skipped when the incoming error cluster already carries an error,
// and any failure fn returns is written into the cluster and reflected
// in the returned status code.
//
// clusterBase is the raw error-cluster pointer as the host passed it;
// nil is tolerated (status is still returned, nothing is written).
func Call(m lvruntime.Manager, clusterBase unsafe.Pointer, fn func() error) lvruntime.MgErr {
	ec := types.NewErrorCluster(m, clusterBase)
	if ec.Status() {
		return ec.Code()
	}

	err := fn()
	if err == nil {
		return lvruntime.MgNoErr
	}

	code := lvruntime.BogusErr
	var le *errors.Error
	if stderrors.As(err, &le) && le.Status != lvruntime.MgNoErr {
		code = le.Status
	}

	if werr := ec.SetError(code, "lv-runtime", err.Error()); werr != nil {
		// The cluster write itself failed; the status code is all that
		// reaches the host.
		manager.Logger().Warn("error cluster write failed",
			zap.Error(werr),
			zap.Int32("code", int32(code)))
	}
	return code
}

// CallBound is Call against the process-wide bound manager, for entry
// points that take no explicit manager. An unbound manager reports
// bogusError without touching the cluster.
func CallBound(clusterBase unsafe.Pointer, fn func() error) lvruntime.MgErr {
	m, err := manager.Current()
	if err != nil {
		return lvruntime.BogusErr
	}
	return Call(m, clusterBase, fn)
}
