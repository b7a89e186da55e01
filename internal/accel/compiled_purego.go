//go:build purego

package accel

// Compiled is false under the purego tag; the provider's probe then fails
// and every operation falls back to the reference implementation.
const Compiled = false
