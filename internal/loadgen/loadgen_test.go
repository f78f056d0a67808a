package loadgen

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer replies +OK to anything, except GET which replies a fixed
// bulk value — enough to exercise both roundTrip branches.
func fakeServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				r := bufio.NewReader(c)
				for {
					line, err := r.ReadString('\n')
					if err != nil {
						return
					}
					fields := strings.Fields(line)
					if len(fields) == 0 {
						continue
					}
					switch strings.ToLower(fields[0]) {
					case "get":
						c.Write([]byte("5\r\nhello\r\n\r\n"))
					default:
						c.Write([]byte("+OK\r\n"))
					}
				}
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func TestRunDrivesEveryCommandWithoutError(t *testing.T) {
	addr := fakeServer(t)
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	cfg := Config{
		Host:        host,
		Port:        mustAtoi(t, portStr),
		Requests:    20,
		Concurrency: 4,
		Timeout:     time.Second,
		Commands:    []string{"set", "get", "incr", "ping"},
		DataSize:    8,
		KeySpace:    10,
		Quiet:       true,
	}
	results := Run(cfg)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.EqualValues(t, 0, r.Errors)
		assert.EqualValues(t, 20, r.Requests)
	}
}

func TestBuildCommandCyclesKeyspace(t *testing.T) {
	assert.Equal(t, "incr bench:0:0", buildCommand("incr", 0, 0, 5, ""))
	assert.Equal(t, "incr bench:0:0", buildCommand("incr", 0, 5, 5, ""))
}

func TestReportFormatsOneLinePerCommand(t *testing.T) {
	out := Report([]Result{{Command: "set", Requests: 10, Throughput: 100.5}})
	assert.Contains(t, out, "set")
	assert.Contains(t, out, "10")
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
