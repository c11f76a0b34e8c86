package common

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been sent. Nil slices are ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
