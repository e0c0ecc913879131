// Package memzero clears secret material from memory.
package memzero

import "runtime"

// Zero overwrites b with zeros. This is best-effort; b is kept live until
// after the write so the compiler cannot drop it.
//
//go:noinline
func Zero(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}

// Zero32 clears a 32-byte key in place.
func Zero32(k *[32]byte) {
	Zero(k[:])
}
