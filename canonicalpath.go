// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"path/filepath"
	"sync"
)

// canonicalLocks is the process-global table mapping a canonical (symlink-
// resolved) file path to a stable monitor object. Every MappedFile opened
// against the same physical file through the same path or through symlinks
// to it resolves to the same *sync.Mutex here, giving process-wide
// exclusion for file-length growth. Hard links are not unified: two
// hard-linked names of one file resolve to different keys and mutexes.
var canonicalLocks sync.Map // map[string]*sync.Mutex

// canonicalLockFor returns the stable monitor for path's canonical form.
// If path cannot be resolved (e.g. it does not exist yet), the path is used
// as-is: a file that doesn't exist yet cannot be hard-linked to anything
// else, so there is no coordination to lose.
func canonicalLockFor(path string) *sync.Mutex {
	key := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		key = resolved
	}
	actual, _ := canonicalLocks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
