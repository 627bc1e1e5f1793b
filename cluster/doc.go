// Package cluster provides safe access to host-defined composite records
// whose fields may sit at byte offsets that violate natural alignment.
//
// On 32-bit hosts, records are packed with 1-byte alignment: a u32 field
// can land at offset 1, an f64 at offset 5. A typed Go pointer at such an
// address is undefined behavior on most targets, so every cross-boundary
// field access goes through a Field[T] accessor that copies bytes instead
// of dereferencing. The same accessors are used on 64-bit builds, where
// they degrade to ordinary aligned copies, so there is one code path for
// both packing modes.
//
//	layout := cluster.NewHostLayout()
//	status := cluster.Append[uint8](layout)
//	code := cluster.Append[int32](layout)
//
//	code.Write(base, 5005)
//	got := code.Read(base)
//
// Field accessors are descriptions, not containers: they are zero-cost to
// copy and hold no pointer to the record they address.
package cluster
