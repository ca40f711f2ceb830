package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/whiteash/scratchpad"
)

// A crude write/read benchmark across the storage adapters, to compare
// the cost of an autosave cycle on each.
func main() {
	adapter := flag.String("adapter", "fs", "Storage adapter to exercise (fs, bolt, mem)")
	count := flag.Int("count", 1000, "Number of save cycles to run")
	size := flag.Int("size", 4096, "Note size in bytes")
	keep := flag.Bool("keep", false, "Keep the benchmark profile after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "scratchpad_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench profile: %s\n", benchDir)
		}
	}()

	// Benchmarks want timing output only.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := scratchpad.Open(benchDir,
		scratchpad.WithAdapter(*adapter),
		scratchpad.WithLogger(logger),
		scratchpad.WithQuota(0),
	)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	ctx := context.TODO()
	note := strings.Repeat("x", *size)

	fmt.Printf("Adapter %s, %d cycles of %d bytes in %s\n", *adapter, *count, *size, benchDir)

	// Every iteration changes the value, like an edit would.
	startSet := time.Now()
	for i := 0; i < *count; i++ {
		value := fmt.Sprintf("%d:%s", i, note)
		if err := store.Set(ctx, scratchpad.KeyNotes, value); err != nil {
			panic(err)
		}
	}
	setDuration := time.Since(startSet)

	startGet := time.Now()
	for i := 0; i < *count; i++ {
		if _, err := store.Get(ctx, scratchpad.KeyNotes); err != nil {
			panic(err)
		}
	}
	getDuration := time.Since(startGet)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d cycles):\n", *count)
	fmt.Printf("  Set: %v total, %v per write\n", setDuration, setDuration/time.Duration(*count))
	fmt.Printf("  Get: %v total, %v per read\n", getDuration, getDuration/time.Duration(*count))
	fmt.Printf("--------------------------------------------------\n")
}
