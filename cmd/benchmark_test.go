package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"kvhouse/internal/loadgen"
)

func TestBenchmarkCommand(t *testing.T) {
	cmd := benchmarkCmd
	assert.NotNil(t, cmd)
	assert.Equal(t, "benchmark", cmd.Use)
	assert.Equal(t, "Run load-generator tests against a kvhouse server", cmd.Short)
}

func TestBenchmarkConfig(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("host", "127.0.0.1", "kvhouse server host")
	cmd.Flags().Int("port", 6379, "kvhouse server port")
	cmd.Flags().Int("db", 0, "kvhouse database number")
	cmd.Flags().Int("requests", 10000, "Total number of requests")
	cmd.Flags().Int("concurrency", 50, "Number of parallel connections")
	cmd.Flags().Duration("timeout", 5*time.Second, "Connection timeout")
	cmd.Flags().String("commands", "ping,set,get", "Comma-separated list of commands to test")
	cmd.Flags().Int("data-size", 2, "Data size of SET/GET values in bytes")
	cmd.Flags().Int("keyspace", 10000, "Keyspace size for generated keys")
	cmd.Flags().Bool("quiet", false, "Quiet mode (only show summary)")

	cfg := loadgen.Config{
		Host:        getStringFlag(cmd, "host", "127.0.0.1"),
		Port:        getIntFlag(cmd, "port", 6379),
		Database:    getIntFlag(cmd, "db", 0),
		Requests:    getIntFlag(cmd, "requests", 10000),
		Concurrency: getIntFlag(cmd, "concurrency", 50),
		Timeout:     getDurationFlag(cmd, "timeout", 5*time.Second),
		Commands:    strings.Split(getStringFlag(cmd, "commands", "ping,set,get"), ","),
		DataSize:    getIntFlag(cmd, "data-size", 2),
		KeySpace:    getIntFlag(cmd, "keyspace", 10000),
		Quiet:       getBoolFlag(cmd, "quiet"),
	}

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 6379, cfg.Port)
	assert.Equal(t, 0, cfg.Database)
	assert.Equal(t, 10000, cfg.Requests)
	assert.Equal(t, 50, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"ping", "set", "get"}, cfg.Commands)
	assert.Equal(t, 2, cfg.DataSize)
	assert.Equal(t, 10000, cfg.KeySpace)
	assert.False(t, cfg.Quiet)
}
