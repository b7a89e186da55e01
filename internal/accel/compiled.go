//go:build !purego

package accel

// Compiled reports whether the byte-level fast paths are built in.
const Compiled = true
