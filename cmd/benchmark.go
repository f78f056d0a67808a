package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kvhouse/internal/loadgen"
)

// benchmarkCmd represents the benchmark command
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Run load-generator tests against a kvhouse server",
	Long: `Run repeatable throughput/latency tests similar to redis-benchmark.

Examples:
  kvhouse benchmark --requests 10000 --concurrency 10
  kvhouse benchmark --commands set,get,incr --requests 5000`,
	Run: runBenchmark,
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.Flags().String("host", "127.0.0.1", "kvhouse server host")
	benchmarkCmd.Flags().IntP("port", "p", 6379, "kvhouse server port")
	benchmarkCmd.Flags().Int("db", 0, "kvhouse database number")

	benchmarkCmd.Flags().Int("requests", 10000, "Total number of requests")
	benchmarkCmd.Flags().IntP("concurrency", "c", 50, "Number of parallel connections")
	benchmarkCmd.Flags().Duration("timeout", 5*time.Second, "Connection timeout")

	benchmarkCmd.Flags().String("commands", "ping,set,get,incr,lpush,sadd", "Comma-separated list of commands to test")
	benchmarkCmd.Flags().Int("data-size", 2, "Data size of SET/GET/LPUSH/SADD values in bytes")
	benchmarkCmd.Flags().Int("keyspace", 10000, "Keyspace size for generated keys")

	benchmarkCmd.Flags().BoolP("quiet", "q", false, "Quiet mode (only show summary)")
}

func runBenchmark(cmd *cobra.Command, _ []string) {
	commands := strings.Split(getStringFlag(cmd, "commands", "ping,set,get,incr,lpush,sadd"), ",")
	for i, c := range commands {
		commands[i] = strings.TrimSpace(c)
	}

	cfg := loadgen.Config{
		Host:        getStringFlag(cmd, "host", "127.0.0.1"),
		Port:        getIntFlag(cmd, "port", 6379),
		Database:    getIntFlag(cmd, "db", 0),
		Requests:    getIntFlag(cmd, "requests", 10000),
		Concurrency: getIntFlag(cmd, "concurrency", 50),
		Timeout:     getDurationFlag(cmd, "timeout", 5*time.Second),
		Commands:    commands,
		DataSize:    getIntFlag(cmd, "data-size", 2),
		KeySpace:    getIntFlag(cmd, "keyspace", 10000),
		Quiet:       getBoolFlag(cmd, "quiet"),
	}

	if !cfg.Quiet {
		fmt.Printf("kvhouse benchmark\n")
		fmt.Printf("host: %s:%d  requests: %d  concurrency: %d  commands: %s\n\n",
			cfg.Host, cfg.Port, cfg.Requests, cfg.Concurrency, strings.Join(cfg.Commands, ", "))
	}

	results := loadgen.Run(cfg)
	fmt.Print(loadgen.Report(results))
}

func getDurationFlag(cmd *cobra.Command, name string, defaultValue time.Duration) time.Duration {
	if value, err := cmd.Flags().GetDuration(name); err == nil {
		return value
	}
	return defaultValue
}
