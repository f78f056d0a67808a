package loadgen

import "fmt"

// Report renders results as one line per command, with throughput and
// latency percentiles.
func Report(results []Result) string {
	out := ""
	for _, r := range results {
		out += fmt.Sprintf("%-10s %10d reqs  %8.1f req/s  errs=%-5d  p50=%-10s p95=%-10s p99=%-10s\n",
			r.Command, r.Requests, r.Throughput, r.Errors, r.P50, r.P95, r.P99)
	}
	return out
}
