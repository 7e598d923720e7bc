// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build membytes_diagnostics

package membytes

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
)

// writerCheck records the goroutine id of the last goroutine observed
// writing through a Bytes cursor. Bytes is documented as single-writer;
// under the membytes_diagnostics build tag every Write* call verifies no
// other goroutine has interleaved a write since the last check, at the cost
// of a runtime.Stack parse per call, so this is opt-in and never compiled
// into a normal build.
type writerCheck struct {
	goid atomic.Int64
}

// goroutineID extracts the numeric id from the "goroutine N [running]:"
// header runtime.Stack always emits first. This is the same trick various
// debug/diagnostic tools use to approximate a goroutine-local identity
// without an exported runtime API for it.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := bytes.Fields(buf[:n])
	if len(field) < 2 {
		return -1
	}
	id, err := strconv.ParseInt(string(field[1]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}

func checkWriter(w *writerCheck) error {
	id := goroutineID()
	prev := w.goid.Swap(id)
	if prev != 0 && prev != id {
		return &ErrThreadingViolation{Where: "Bytes write"}
	}
	return nil
}
