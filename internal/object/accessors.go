package object

// The methods below expose the List/Set payload operations through the
// Object handle so callers never see the unexported payload types
// directly — command handlers only ever touch this surface.

// LLen returns the number of elements in a LIST object.
func (o *Object) LLen() int { return o.list.Len() }

// LPushFront pushes el onto the head of a LIST object. Caller owns el's
// refcount handoff (the list becomes the new holder of one reference).
func (o *Object) LPushFront(el *Object) { o.list.PushFront(el) }

// LPushBack pushes el onto the tail of a LIST object.
func (o *Object) LPushBack(el *Object) { o.list.PushBack(el) }

// LPopFront removes and returns the head element.
func (o *Object) LPopFront() (*Object, bool) { return o.list.PopFront() }

// LPopBack removes and returns the tail element.
func (o *Object) LPopBack() (*Object, bool) { return o.list.PopBack() }

// LIndex returns the element at a non-negative, already-resolved index.
func (o *Object) LIndex(i int) (*Object, bool) { return o.list.Index(i) }

// LSet replaces the element at a non-negative, already-resolved index.
func (o *Object) LSet(i int, el *Object) bool { return o.list.Set(i, el) }

// LRange returns the borrowed elements in [start, stop].
func (o *Object) LRange(start, stop int) []*Object { return o.list.Range(start, stop) }

// LTrim discards elements outside [start, stop].
func (o *Object) LTrim(start, stop int) { o.list.Trim(start, stop) }

// SCard returns the number of members in a SET object.
func (o *Object) SCard() int { return len(o.set) }

// SIsMember reports whether member is present in a SET object.
func (o *Object) SIsMember(member string) bool {
	_, ok := o.set[member]
	return ok
}

// SAdd adds member (a STRING object) if absent, reporting whether it was
// newly inserted. On a no-op (already present) the caller-supplied
// reference is not retained and must be released by the caller.
func (o *Object) SAdd(key string, member *Object) bool {
	if _, exists := o.set[key]; exists {
		return false
	}
	o.set[key] = member
	return true
}

// SRem removes member by key, releasing its reference, reporting whether
// it was present.
func (o *Object) SRem(key string) bool {
	m, ok := o.set[key]
	if !ok {
		return false
	}
	delete(o.set, key)
	DecrRef(m)
	return true
}

// SMembers returns the borrowed member objects in unspecified order.
func (o *Object) SMembers() []*Object {
	out := make([]*Object, 0, len(o.set))
	for _, m := range o.set {
		out = append(out, m)
	}
	return out
}
