// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import "testing"

func TestFastHashSpecializedLengths(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for _, n := range []int64{0, 1, 2, 4, 8} {
		h1 := fastHash(b, 0, n)
		h2 := fastHash(b, 0, n)
		if h1 != h2 {
			t.Fatal(n, h1, h2)
		}
	}
	if g := fastHash(b, 0, 0); g != 0 {
		t.Fatal(g)
	}
}

func TestFastHashGenericFallbackIsDeterministic(t *testing.T) {
	b := []byte("the quick brown fox jumps over the lazy dog")
	h1 := fastHash(b, 0, int64(len(b)))
	h2 := fastHash(b, 0, int64(len(b)))
	if h1 != h2 {
		t.Fatal(h1, h2)
	}
}

func TestContentEqualPaddingRule(t *testing.T) {
	short := []byte{1, 2, 3}
	longZero := []byte{1, 2, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if !contentEqual(short, longZero) {
		t.Fatal("expected equal: surplus on the longer side is all zero")
	}
	longNonZero := []byte{1, 2, 3, 0, 0, 0, 0, 0, 0, 0, 0, 9}
	if contentEqual(short, longNonZero) {
		t.Fatal("expected unequal: surplus on the longer side is not all zero")
	}
}

func TestFindFirstMismatch(t *testing.T) {
	a := make([]byte, 40)
	b := make([]byte, 40)
	for i := range a {
		a[i] = byte(i)
		b[i] = byte(i)
	}
	if g, e := findFirstMismatch(a, b), 40; g != e {
		t.Fatal(g, e)
	}
	b[17] = 0xff
	if g, e := findFirstMismatch(a, b), 17; g != e {
		t.Fatal(g, e)
	}
}

func TestCopyStridedAndZeroOutStrided(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	dst := make([]byte, len(src))
	copyStrided(dst, src)
	for i := range src {
		if dst[i] != src[i] {
			t.Fatal(i, dst[i], src[i])
		}
	}
	zeroOutStrided(dst[2:9])
	for i := 2; i < 9; i++ {
		if dst[i] != 0 {
			t.Fatal(i, dst[i])
		}
	}
	if dst[0] != 1 || dst[10] != 11 {
		t.Fatal("zeroOutStrided touched bytes outside its slice")
	}
}
