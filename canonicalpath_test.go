// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"path/filepath"
	"testing"
)

func TestCanonicalLockForIsStablePerPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")

	a := canonicalLockFor(path)
	b := canonicalLockFor(path)
	if a != b {
		t.Fatal("expected the same *sync.Mutex for repeated calls on the same path")
	}

	other := canonicalLockFor(filepath.Join(dir, "g.bin"))
	if a == other {
		t.Fatal("expected distinct mutexes for distinct paths")
	}
}
