package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"kvhouse/internal/cliclient"
)

func TestCLICommand(t *testing.T) {
	cmd := cliCmd
	assert.NotNil(t, cmd)
	assert.Equal(t, "cli", cmd.Use)
	assert.Equal(t, "Interactive kvhouse command-line interface", cmd.Short)
}

func TestCLIConfig(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("host", "127.0.0.1", "kvhouse server host")
	cmd.Flags().IntP("port", "p", 6379, "kvhouse server port")
	cmd.Flags().Int("db", 0, "Database number")
	cmd.Flags().Duration("timeout", 5*time.Second, "Connection timeout")
	cmd.Flags().Bool("raw", false, "Use raw formatting for replies")
	cmd.Flags().String("eval", "", "Send specified command")
	cmd.Flags().String("file", "", "Execute commands from file")

	cfg := cliclient.Config{
		Host:     getStringFlag(cmd, "host", "127.0.0.1"),
		Port:     getIntFlag(cmd, "port", 6379),
		Database: getIntFlag(cmd, "db", 0),
		Timeout:  getDurationFlag(cmd, "timeout", 5*time.Second),
		Raw:      getBoolFlag(cmd, "raw"),
		Eval:     getStringFlag(cmd, "eval", ""),
		File:     getStringFlag(cmd, "file", ""),
	}

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 6379, cfg.Port)
	assert.Equal(t, 0, cfg.Database)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.False(t, cfg.Raw)
	assert.Equal(t, "", cfg.Eval)
	assert.Equal(t, "", cfg.File)
}
