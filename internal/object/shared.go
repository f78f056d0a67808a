package object

// Shared holds the process-wide canned reply objects: immutable STRING
// objects created once at startup and reused for every enqueue, so the
// common-case reply path never allocates.
type Shared struct {
	OK           *Object
	Pong         *Object
	Nil          *Object
	Zero         *Object
	One          *Object
	CRLF         *Object
	WrongType    *Object
	NoSuchKey    *Object
	SameKey      *Object
	OutOfRange   *Object
	UnknownCmd   *Object
	WrongArgs    *Object
	InvalidBulk  *Object
	InvalidIndex *Object
}

// NewShared builds the shared-reply table. Called once at startup.
func NewShared() *Shared {
	mk := func(s string) *Object { return NewString([]byte(s)) }
	return &Shared{
		OK:           mk("+OK\r\n"),
		Pong:         mk("+PONG\r\n"),
		Nil:          mk("nil\r\n"),
		Zero:         mk("0\r\n"),
		One:          mk("1\r\n"),
		CRLF:         mk("\r\n"),
		WrongType:    mk("-2\r\n"),
		NoSuchKey:    mk("-1\r\n"),
		SameKey:      mk("-3\r\n"),
		OutOfRange:   mk("-4\r\n"),
		UnknownCmd:   mk("-ERR unknown command\r\n"),
		WrongArgs:    mk("-ERR wrong number of arguments\r\n"),
		InvalidBulk:  mk("-ERR invalid bulk write count\r\n"),
		InvalidIndex: mk("-4\r\n"),
	}
}

// Use increments the shared object's refcount and returns it: every
// enqueue of a canned reply takes a reference. The reply queue balances
// this with a DecrRef on drain like any other object.
func Use(o *Object) *Object {
	IncrRef(o)
	return o
}
