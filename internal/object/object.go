// Package object implements the server's single heterogeneous value type:
// a refcounted, tagged container that is either a byte string, an ordered
// list of byte strings, or an unordered set of byte strings.
package object

// Type tags the payload a Object carries.
type Type int

const (
	String Type = iota
	List
	Set
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case List:
		return "list"
	case Set:
		return "set"
	default:
		return "none"
	}
}

// Object is the single polymorphic value stored under keyspace keys, inside
// list elements, and inside set members. Containers (List, Set) hold only
// STRING objects; a given Object is never reused across type roles.
//
// refcount counts every live reference: a keyspace entry, a reply queue
// fragment, a command argv slot, or a container element slot. The object is
// freed (or recycled onto the free-list) the instant refcount reaches 0.
type Object struct {
	typ      Type
	refcount int32

	str  []byte
	list *listPayload
	set  map[string]*Object
}

// NewString creates a fresh STRING object with refcount 1, taking ownership
// of buf. Callers must not mutate buf afterward.
func NewString(buf []byte) *Object {
	o := get()
	o.typ = String
	o.str = buf
	o.refcount = 1
	return o
}

// NewList creates a fresh, empty LIST object with refcount 1.
func NewList() *Object {
	o := get()
	o.typ = List
	o.list = newListPayload()
	o.refcount = 1
	return o
}

// NewSet creates a fresh, empty SET object with refcount 1.
func NewSet() *Object {
	o := get()
	o.typ = Set
	o.set = make(map[string]*Object)
	o.refcount = 1
	return o
}

// Type reports the object's discriminant.
func (o *Object) Type() Type { return o.typ }

// Bytes returns the payload of a STRING object. Only valid for Type()==String.
func (o *Object) Bytes() []byte { return o.str }

// Refcount reports the current live reference count. Exposed for invariant
// checks in tests: every live object must hold refcount >= 1.
func (o *Object) Refcount() int32 { return o.refcount }

// IncrRef adds one reference. Called whenever an Object is installed into a
// keyspace entry, a container, an argv slot, or a reply queue.
func IncrRef(o *Object) {
	if o == nil {
		return
	}
	o.refcount++
}

// DecrRef removes one reference, releasing the payload and returning the
// header to the free-list the instant refcount reaches zero. Containers
// recursively decrRef every element they own.
func DecrRef(o *Object) {
	if o == nil {
		return
	}
	o.refcount--
	if o.refcount > 0 {
		return
	}
	switch o.typ {
	case List:
		o.list.forEach(func(el *Object) { DecrRef(el) })
	case Set:
		for _, member := range o.set {
			DecrRef(member)
		}
	}
	release(o)
}
