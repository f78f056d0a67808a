package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"kvhouse/internal/cliclient"
)

// cliCmd represents the CLI command
var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "Interactive kvhouse command-line interface",
	Long: `Interactive kvhouse command-line interface similar to redis-cli.

Connect to a kvhouse server and execute commands interactively or in batch mode.

Examples:
  kvhouse cli
  kvhouse cli --host 127.0.0.1 --port 6379
  kvhouse cli --eval "SET key value"
  kvhouse cli --file commands.txt`,
	Run: func(cmd *cobra.Command, args []string) {
		err := cliclient.RunCLI(cliclient.Config{
			Host:     getStringFlag(cmd, "host", "127.0.0.1"),
			Port:     getIntFlag(cmd, "port", 6379),
			Database: getIntFlag(cmd, "db", 0),
			Timeout:  getDurationFlag(cmd, "timeout", 5*time.Second),
			Raw:      getBoolFlag(cmd, "raw"),
			Eval:     getStringFlag(cmd, "eval", ""),
			File:     getStringFlag(cmd, "file", ""),
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(cliCmd)

	cliCmd.Flags().String("host", "127.0.0.1", "kvhouse server host")
	cliCmd.Flags().IntP("port", "p", 6379, "kvhouse server port")
	cliCmd.Flags().IntP("db", "d", 0, "Database number")
	cliCmd.Flags().Duration("timeout", 5*time.Second, "Connection timeout")

	cliCmd.Flags().Bool("raw", false, "Use raw formatting for replies")
	cliCmd.Flags().String("eval", "", "Send specified command")
	cliCmd.Flags().String("file", "", "Execute commands from file")
}
