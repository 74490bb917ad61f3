// Command kvbench runs the synthetic benchmark: a concurrent mixed
// get/put workload followed by a put-latency measurement.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"kvstore/internal/bench"
	"kvstore/internal/logger"
	"kvstore/internal/store"
)

func main() {
	capacity := flag.Int("capacity", 10000, "cache capacity")
	workers := flag.Int("threads", runtime.NumCPU(), "number of concurrent workers")
	operations := flag.Int("operations", 10000, "operations per worker")
	readRatio := flag.Float64("read-ratio", 0.8, "fraction of operations that are reads (0.0-1.0)")
	latencyOps := flag.Int("latency-operations", 10000, "operations for the latency measurement")
	flag.Parse()

	st, err := store.New(store.Config{Capacity: *capacity})
	if err != nil {
		slog.Error("create store", logger.Error(err))
		os.Exit(1)
	}

	fmt.Println("kvstore benchmark")
	fmt.Println("=================")
	fmt.Println()

	fmt.Printf("Running concurrent benchmark:\n")
	fmt.Printf("  Workers: %d\n", *workers)
	fmt.Printf("  Operations per worker: %d\n", *operations)
	fmt.Printf("  Read ratio: %.0f%%\n\n", *readRatio*100)

	report := bench.Run(st, bench.Options{
		Workers:      *workers,
		OpsPerWorker: *operations,
		ReadRatio:    *readRatio,
	})

	fmt.Printf("Benchmark results:\n")
	fmt.Printf("  Total operations: %d\n", report.TotalOps)
	fmt.Printf("  Duration: %d ms\n", report.Duration.Milliseconds())
	fmt.Printf("  Operations/sec: %.2f\n", report.OperationsPerSecond)
	fmt.Printf("  Cache hit rate: %.2f%%\n", report.HitRate*100)
	fmt.Printf("  Final cache size: %d\n", report.FinalSize)
	fmt.Printf("  Evictions: %d\n\n", report.Evictions)

	fmt.Printf("Running latency test with %d operations...\n", *latencyOps)
	latency := bench.MeasureLatency(st, *latencyOps)

	fmt.Printf("Latency results (microseconds):\n")
	fmt.Printf("  Average: %.2f\n", latency.Avg)
	fmt.Printf("  P50: %.2f\n", latency.P50)
	fmt.Printf("  P95: %.2f\n", latency.P95)
	fmt.Printf("  P99: %.2f\n", latency.P99)
	fmt.Printf("  Min: %.2f\n", latency.Min)
	fmt.Printf("  Max: %.2f\n", latency.Max)
}
