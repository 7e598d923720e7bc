// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import "testing"

func TestReferenceCountedBasics(t *testing.T) {
	var released bool
	var r ReferenceCounted
	r.initRefCount(func() { released = true })

	if g, e := r.refCount(), int64(1); g != e {
		t.Fatal(g, e)
	}

	ownerA, ownerB := &struct{}{}, &struct{}{}
	if err := r.reserve(ownerA); err != nil {
		t.Fatal(err)
	}
	if err := r.reserve(ownerB); err != nil {
		t.Fatal(err)
	}
	if g, e := r.refCount(), int64(3); g != e {
		t.Fatal(g, e)
	}
	if !r.reservedBy(ownerA) {
		t.Fatal("expected ownerA to be recorded as reserving")
	}

	if err := r.release_(ownerA); err != nil {
		t.Fatal(err)
	}
	if released {
		t.Fatal("release fired before count reached zero")
	}
	if err := r.release_(ownerB); err != nil {
		t.Fatal(err)
	}
	if released {
		t.Fatal("release fired before the implicit INIT owner released")
	}
	if err := r.release_(initOwner); err != nil {
		t.Fatal(err)
	}
	if !released {
		t.Fatal("expected release to fire once count reached zero")
	}
	if !r.isClosed() {
		t.Fatal("expected closed")
	}
	if err := r.reserve(ownerA); err == nil {
		t.Fatal("expected reserve on a closed ReferenceCounted to fail")
	}
}

func TestReferenceCountedTryReserveAfterClose(t *testing.T) {
	var r ReferenceCounted
	r.initRefCount(func() {})
	if err := r.release_(initOwner); err != nil {
		t.Fatal(err)
	}
	if r.tryReserve(&struct{}{}) {
		t.Fatal("expected tryReserve on closed ReferenceCounted to return false")
	}
}

func TestReferenceCountedReleaseLastRequiresSoleOwner(t *testing.T) {
	var r ReferenceCounted
	r.initRefCount(func() {})
	owner := &struct{}{}
	if err := r.reserve(owner); err != nil {
		t.Fatal(err)
	}
	if err := r.releaseLast(owner); err == nil {
		t.Fatal("expected releaseLast to fail while another owner (INIT) still holds a reservation")
	}
	if err := r.release_(initOwner); err != nil {
		t.Fatal(err)
	}
	if err := r.releaseLast(owner); err != nil {
		t.Fatal(err)
	}
	if !r.isClosed() {
		t.Fatal("expected closed after releaseLast brought the count to zero")
	}
}

func TestReferenceCountedSurvivingOwners(t *testing.T) {
	var r ReferenceCounted
	r.initRefCount(func() {})
	a, b := &struct{ n string }{"a"}, &struct{ n string }{"b"}
	if err := r.reserve(a); err != nil {
		t.Fatal(err)
	}
	if err := r.reserve(b); err != nil {
		t.Fatal(err)
	}
	owners := r.survivingOwners()
	if g, e := len(owners), 2; g != e {
		t.Fatal(g, e)
	}
}
