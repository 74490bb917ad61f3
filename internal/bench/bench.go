// Package bench generates synthetic load against a store and reports
// throughput and latency figures.
package bench

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"kvstore/internal/store"
)

const valueCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Options configure a concurrent benchmark run.
type Options struct {
	// Workers is the number of concurrent goroutines.
	Workers int

	// OpsPerWorker is how many operations each worker performs.
	OpsPerWorker int

	// ReadRatio is the fraction of operations that are gets, 0.0 to 1.0.
	ReadRatio float64

	// KeySpace is the number of distinct keys the workload draws from.
	KeySpace int

	// ValueSize is the length of generated values in bytes.
	ValueSize int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.OpsPerWorker <= 0 {
		o.OpsPerWorker = 10000
	}
	if o.ReadRatio < 0 || o.ReadRatio > 1 {
		o.ReadRatio = 0.8
	}
	if o.KeySpace <= 0 {
		o.KeySpace = 10000
	}
	if o.ValueSize <= 0 {
		o.ValueSize = 50
	}
	return o
}

// Report summarizes a concurrent run.
type Report struct {
	TotalOps            int
	Duration            time.Duration
	OperationsPerSecond float64
	HitRate             float64
	Evictions           uint64
	FinalSize           int
}

// Run clears the store, then drives Workers goroutines performing a mixed
// get/put workload over a shared keyspace.
func Run(s *store.Store, opts Options) Report {
	opts = opts.withDefaults()
	s.Clear()

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		go func(seed int64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < opts.OpsPerWorker; i++ {
				key := fmt.Sprintf("key_%d", rng.Intn(opts.KeySpace)+1)
				if rng.Float64() < opts.ReadRatio {
					s.Get(key)
				} else {
					s.Put(key, randomValue(rng, opts.ValueSize))
				}
			}
		}(time.Now().UnixNano() + int64(w))
	}
	wg.Wait()

	elapsed := time.Since(start)
	total := opts.Workers * opts.OpsPerWorker
	m := s.Metrics()

	return Report{
		TotalOps:            total,
		Duration:            elapsed,
		OperationsPerSecond: float64(total) / elapsed.Seconds(),
		HitRate:             m.HitRate,
		Evictions:           m.Evictions,
		FinalSize:           s.Len(),
	}
}

// LatencyReport holds per-operation put latencies in microseconds.
type LatencyReport struct {
	Ops int
	Avg float64
	P50 float64
	P95 float64
	P99 float64
	Min float64
	Max float64
}

// MeasureLatency times individual puts of fresh keys after a short warmup.
func MeasureLatency(s *store.Store, ops int) LatencyReport {
	if ops <= 0 {
		ops = 10000
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < 1000; i++ {
		s.Put(fmt.Sprintf("warmup_%d", i), []byte("value"))
	}

	latencies := make([]float64, 0, ops)
	for i := 0; i < ops; i++ {
		key := fmt.Sprintf("latency_test_%d", i)
		value := randomValue(rng, 100)

		start := time.Now()
		s.Put(key, value)
		latencies = append(latencies, float64(time.Since(start).Nanoseconds())/1e3)
	}

	sort.Float64s(latencies)

	var sum float64
	for _, l := range latencies {
		sum += l
	}

	return LatencyReport{
		Ops: ops,
		Avg: sum / float64(len(latencies)),
		P50: percentile(latencies, 0.5),
		P95: percentile(latencies, 0.95),
		P99: percentile(latencies, 0.99),
		Min: latencies[0],
		Max: latencies[len(latencies)-1],
	}
}

// percentile indexes into an ascending-sorted slice.
func percentile(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func randomValue(rng *rand.Rand, size int) []byte {
	b := make([]byte, size)
	for i := range b {
		b[i] = valueCharset[rng.Intn(len(valueCharset))]
	}
	return b
}
