package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringObjectRefcount(t *testing.T) {
	o := NewString([]byte("hello"))
	assert.Equal(t, int32(1), o.Refcount())
	IncrRef(o)
	assert.Equal(t, int32(2), o.Refcount())
	DecrRef(o)
	assert.Equal(t, int32(1), o.Refcount())
	assert.Equal(t, "hello", string(o.Bytes()))
}

func TestDecrRefFreesAtZero(t *testing.T) {
	o := NewString([]byte("x"))
	DecrRef(o)
	assert.Equal(t, int32(0), o.Refcount())
}

func TestListPushPopOrder(t *testing.T) {
	l := NewList()
	a := NewString([]byte("a"))
	b := NewString([]byte("b"))
	l.LPushFront(a)
	l.LPushFront(b)
	assert.Equal(t, 2, l.LLen())

	els := l.LRange(0, l.LLen()-1)
	assert.Len(t, els, 2)
	assert.Equal(t, "b", string(els[0].Bytes()))
	assert.Equal(t, "a", string(els[1].Bytes()))
}

func TestListTrimDropsOutOfRange(t *testing.T) {
	l := NewList()
	for _, s := range []string{"a", "b", "c", "d"} {
		l.LPushBack(NewString([]byte(s)))
	}
	l.LTrim(1, 2)
	assert.Equal(t, 2, l.LLen())
	first, _ := l.LIndex(0)
	assert.Equal(t, "b", string(first.Bytes()))
}

func TestSetAddIsMemberRem(t *testing.T) {
	s := NewSet()
	added := s.SAdd("m", NewString([]byte("m")))
	assert.True(t, added)
	assert.False(t, s.SAdd("m", NewString([]byte("m")))) // caller must release the unused ref
	assert.True(t, s.SIsMember("m"))
	assert.Equal(t, 1, s.SCard())
	assert.True(t, s.SRem("m"))
	assert.False(t, s.SIsMember("m"))
}

func TestSharedReplyUseIncrementsRefcount(t *testing.T) {
	shared := NewShared()
	before := shared.OK.Refcount()
	got := Use(shared.OK)
	assert.Equal(t, before+1, got.Refcount())
}
