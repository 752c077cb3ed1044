package core

import "strconv"

// ID identifies a geometry. NoID is never assigned to a live geometry.
type ID uint64

const NoID ID = 0

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IDAllocator hands out monotonically increasing geometry identities.
// Identities are never reused, even after the geometry is released.
type IDAllocator struct {
	next ID
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns a fresh identity.
func (a *IDAllocator) Next() ID {
	if a.next == NoID {
		a.next = 1
	}
	id := a.next
	a.next++
	return id
}

// Peek returns the identity the next call to Next will return.
func (a *IDAllocator) Peek() ID {
	if a.next == NoID {
		return 1
	}
	return a.next
}

// Reset seeds the allocator so that Next returns start. A start of NoID is
// treated as 1.
func (a *IDAllocator) Reset(start ID) {
	if start == NoID {
		start = 1
	}
	a.next = start
}
