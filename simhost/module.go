package simhost

// The backing store is the exported linear memory of a minimal wasm
// module, hand-encoded here so the package carries no binary asset:
//
//	(module (memory (export "mem") 1 <maxPages>))
//
// One page is 64 KiB.

const (
	pageSize   = 65536
	memoryName = "mem"
)

// memModule encodes the module above for the given page limit.
func memModule(maxPages uint32) []byte {
	limits := []byte{0x01, 0x01} // flags: max present; min: 1 page
	limits = appendUleb(limits, maxPages)

	mod := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00} // magic, version

	// Memory section: one memory with the limits above.
	memSec := append([]byte{0x01}, limits...)
	mod = append(mod, 0x05, byte(len(memSec)))
	mod = append(mod, memSec...)

	// Export section: memory 0 as "mem".
	expSec := []byte{0x01, byte(len(memoryName))}
	expSec = append(expSec, memoryName...)
	expSec = append(expSec, 0x02, 0x00)
	mod = append(mod, 0x07, byte(len(expSec)))
	mod = append(mod, expSec...)

	return mod
}

// appendUleb appends v as unsigned LEB128.
func appendUleb(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}
