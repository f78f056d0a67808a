package cliclient

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommandInline(t *testing.T) {
	assert.Equal(t, []byte("GET foo\r\n"), encodeCommand([]string{"GET", "foo"}))
}

func TestEncodeCommandBulk(t *testing.T) {
	assert.Equal(t, []byte("set foo 5\r\nhello\r\n"), encodeCommand([]string{"set", "foo", "hello"}))
}

func TestReadReplyLineShapes(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("+OK\r\n"))
	out, err := readReply(r, "set")
	require.NoError(t, err)
	assert.Equal(t, "+OK", out)
}

func TestReadReplyBulkOrNil(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("5\r\nhello\r\n\r\n"))
	out, err := readReply(r, "get")
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, out)
}

func TestReadReplyNil(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("nil\r\n"))
	out, err := readReply(r, "get")
	require.NoError(t, err)
	assert.Equal(t, "nil", out)
}

func TestReadReplyBulkArray(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("2\r\n1\r\nb\r\n\r\n1\r\na\r\n\r\n"))
	out, err := readReply(r, "lrange")
	require.NoError(t, err)
	assert.Equal(t, "1) \"b\"\n2) \"a\"", out)
}

func TestReadReplyKeys(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("3\r\nfoo\r\n"))
	out, err := readReply(r, "keys")
	require.NoError(t, err)
	assert.Equal(t, "foo", out)
}

func TestReadReplyNone(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(""))
	out, err := readReply(r, "shutdown")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestInteractiveRenderRawStripsQuotesAndOrdinals(t *testing.T) {
	assert.Equal(t, `hello`, interactiveRender(`"hello"`, true))
	assert.Equal(t, "b\na", interactiveRender("1) \"b\"\n2) \"a\"", true))
	assert.Equal(t, `"hello"`, interactiveRender(`"hello"`, false))
}

func TestHistoryPreviousNext(t *testing.T) {
	h := NewHistory(3)
	h.Add("one")
	h.Add("two")
	assert.Equal(t, "two", h.Previous())
	assert.Equal(t, "one", h.Previous())
	assert.Equal(t, "two", h.Next())
	assert.Equal(t, "", h.Next())
}
