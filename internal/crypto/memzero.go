package crypto

import "confidant/internal/util/memzero"

// Wipe zeroes the provided buffer. This is best-effort; Go gives no
// guarantee that copies made by the runtime are cleared.
func Wipe(b []byte) {
	memzero.Zero(b)
}
