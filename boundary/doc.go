// Package boundary wraps plugin entry points in the host's error-cluster
// convention.
//
// Functions the host calls receive raw tokens and an error-cluster
// pointer, never the safe wrapper types; wrapping happens immediately
// inside. Call implements the host-side contract around that: skip the
// body when an error is already flowing, translate a returned Go error
// into the cluster, and hand the status code back.
//
//	func setDeviceMode(errCluster unsafe.Pointer, id lvruntime.UHandle, mode int32) lvruntime.MgErr {
//	    return boundary.CallBound(errCluster, func() error {
//	        name := memory.Wrap[byte](mustManager(), id)
//	        ...
//	    })
//	}
package boundary
