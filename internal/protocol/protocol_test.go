package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isBulkCmd(name string) bool {
	switch name {
	case "set", "lpush":
		return true
	default:
		return false
	}
}

func TestParserInlineCommand(t *testing.T) {
	p := New(isBulkCmd)
	p.Feed([]byte("GET foo\r\n"))
	argv, ok, err := p.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("GET"), []byte("foo")}, argv)
}

func TestParserBulkCommand(t *testing.T) {
	p := New(isBulkCmd)
	p.Feed([]byte("set foo 5\r\nhello\r\n"))
	argv, ok, err := p.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("set"), []byte("foo"), []byte("hello")}, argv)
}

func TestParserBulkAwaitsMoreData(t *testing.T) {
	p := New(isBulkCmd)
	p.Feed([]byte("set foo 5\r\nhel"))
	_, ok, err := p.Next()
	assert.NoError(t, err)
	assert.False(t, ok)

	p.Feed([]byte("lo\r\n"))
	argv, ok, err := p.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), argv[2])
}

func TestParserInvalidBulkTerminator(t *testing.T) {
	p := New(isBulkCmd)
	p.Feed([]byte("set foo 5\r\nhelloXX"))
	_, _, err := p.Next()
	assert.ErrorIs(t, err, ErrInvalidBulkLen)
}

func TestParserQueryTooBig(t *testing.T) {
	p := New(isBulkCmd)
	p.Feed(make([]byte, MaxQueryBuf+1))
	_, _, err := p.Next()
	assert.ErrorIs(t, err, ErrQueryTooBig)
}

func TestParserPipelining(t *testing.T) {
	p := New(isBulkCmd)
	p.Feed([]byte("PING\r\nPING\r\n"))
	_, ok1, _ := p.Next()
	_, ok2, _ := p.Next()
	_, ok3, _ := p.Next()
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
}

func TestEncodeBulk(t *testing.T) {
	assert.Equal(t, []byte("5\r\nhello\r\n\r\n"), Bulk([]byte("hello")))
}

func TestEncodeNumberHasNoSigil(t *testing.T) {
	assert.Equal(t, []byte("42\r\n"), Number(42))
}

func TestEncodeKeysLine(t *testing.T) {
	assert.Equal(t, []byte("3\r\nabc\r\n"), KeysLine([][]byte{[]byte("abc")}))
	assert.Equal(t, []byte("0\r\n\r\n"), KeysLine(nil))
}
