package object

// freeList is a bounded recycling pool for decommissioned Object headers.
// It exists purely to reduce allocator churn under heavy SET/DEL traffic;
// discarding a header when the pool is full is perfectly fine.
const freeListCapacity = 4096

var freeList = make([]*Object, 0, freeListCapacity)

// get returns a recycled header if one is available, otherwise allocates a
// fresh one. The returned header has its payload fields zeroed.
func get() *Object {
	n := len(freeList)
	if n == 0 {
		return &Object{}
	}
	o := freeList[n-1]
	freeList = freeList[:n-1]
	*o = Object{}
	return o
}

// release returns a header whose refcount has reached zero to the free-list,
// or discards it if the pool is already at capacity.
func release(o *Object) {
	o.str = nil
	o.list = nil
	o.set = nil
	if len(freeList) >= freeListCapacity {
		return
	}
	freeList = append(freeList, o)
}

// FreeListLen reports how many headers are currently recycled. Exposed so
// invariant tests can check that alive headers plus free-list headers
// equal the running total of allocations minus full frees.
func FreeListLen() int { return len(freeList) }
