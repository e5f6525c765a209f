// Package goid extracts the current goroutine's id by parsing the first
// line of its stack trace. This is the portable slow path (~1.5µs per call);
// callers are expected to cache the result per goroutine.
package goid

import "runtime"

// ID returns the current goroutine's id, or 0 if it cannot be determined.
// Goroutine ids are positive and never reused within a process.
func ID() int64 {
	// Only the header line is needed.
	// Format: "goroutine 123 [running]:\n..."
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the numeric id from a stack trace header, without
// allocating. Returns 0 on malformed input.
func parse(b []byte) int64 {
	const prefix = "goroutine "
	if len(b) < len(prefix) || string(b[:len(prefix)]) != prefix {
		return 0
	}
	b = b[len(prefix):]
	var id int64
	for _, c := range b {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
