// Package types implements the host data types that cross the plugin
// boundary with fixed, host-defined representations.
//
//   - Bool: the host's one-byte boolean (any nonzero value is true)
//   - LStr: length-prefixed strings stored in manager handles
//   - ErrorCluster: the host's {status, code, source} error record,
//     accessed through cluster fields because of 32-bit packing
//   - StatusString: names for the manager status codes
//
// Everything here is glue over the core wrappers: handles via the memory
// package, record fields via the cluster package. Nothing in this package
// owns host memory beyond the scope of one call.
package types
