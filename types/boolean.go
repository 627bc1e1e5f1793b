package types

// Bool is the host's one-byte boolean as it appears on the wire and in
// clusters. Any nonzero value is true.
type Bool uint8

// False and True are the host's canonical boolean encodings.
const (
	False Bool = 0
	True  Bool = 1
)

// BoolFrom converts a Go bool to the host encoding.
func BoolFrom(b bool) Bool {
	if b {
		return True
	}
	return False
}

// Bool converts the host encoding to a Go bool.
func (b Bool) Bool() bool {
	return b != 0
}
