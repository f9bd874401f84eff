//go:build ignore

// Stress test runner with built-in profiling support
// This program drives a high-concurrency run against the engine in-process
// with memory and goroutine monitoring
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/engine"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

func main() {
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile to file")
	goroutineProfile := flag.String("goroutineprofile", "", "write goroutine profile to file")
	monitorInterval := flag.Duration("monitor-interval", 5*time.Second, "interval for monitoring stats")
	vus := flag.Int("vus", 500, "virtual users to schedule")
	duration := flag.Int("duration", 30, "run duration per user in seconds")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("Engine Stress Test with Profiling")
	fmt.Println("========================================")
	fmt.Println()

	// Enable CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		fmt.Printf("✓ CPU profiling enabled: %s\n", *cpuProfile)
	}

	// Start monitoring goroutine
	stopMonitor := make(chan struct{})
	monitorDone := make(chan struct{})

	go func() {
		defer close(monitorDone)
		ticker := time.NewTicker(*monitorInterval)
		defer ticker.Stop()

		fmt.Println("\nStarting resource monitoring...")
		fmt.Println("Time\t\tGoroutines\tMemAlloc(MB)\tSys(MB)\t\tNumGC")
		fmt.Println("----\t\t----------\t------------\t-------\t\t-----")

		for {
			select {
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				fmt.Printf("%s\t%d\t\t%.2f\t\t%.2f\t\t%d\n",
					time.Now().Format("15:04:05"),
					runtime.NumGoroutine(),
					float64(m.Alloc)/1024/1024,
					float64(m.Sys)/1024/1024,
					m.NumGC,
				)
			case <-stopMonitor:
				return
			}
		}
	}()

	// Record initial stats
	var initialStats runtime.MemStats
	runtime.ReadMemStats(&initialStats)
	initialGoroutines := runtime.NumGoroutine()

	fmt.Printf("Initial state:\n")
	fmt.Printf("  Goroutines: %d\n", initialGoroutines)
	fmt.Printf("  Memory Allocated: %.2f MB\n", float64(initialStats.Alloc)/1024/1024)
	fmt.Printf("  System Memory: %.2f MB\n", float64(initialStats.Sys)/1024/1024)
	fmt.Println()

	// Fast iterations maximize pressure on the collector and scheduler:
	// low simulated latency, no think time, fixed seed for comparable runs.
	profile := config.WorkloadProfile{
		Name:          "collector stress",
		Concurrency:   *vus,
		Duration:      *duration,
		RampUpSeconds: 5,
		WorkloadType:  "ui-interaction",
		LatencyMinMs:  1,
		LatencyMaxMs:  3,
		ThinkMinMs:    0,
		ThinkMaxMs:    1,
		Seed:          42,
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	eng := engine.NewEngine(engine.WithLogger(logger))

	// Run the stress test
	fmt.Printf("Starting stress test: %d VUs for %ds...\n\n", *vus, *duration)

	startTime := time.Now()
	rep, err := eng.RunLoadTest(context.Background(), profile)
	elapsed := time.Since(startTime)

	// Stop monitoring
	close(stopMonitor)
	<-monitorDone

	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("Test Completed")
	fmt.Println("========================================")
	fmt.Printf("Duration: %s\n", elapsed)
	if rep != nil {
		fmt.Printf("Status: %s\n", rep.Status)
		fmt.Printf("Operations: %d (%.0f/s)\n", rep.TotalRequests, rep.ThroughputReqPerSec)
		fmt.Printf("P99 latency: %.2fms\n", rep.Percentiles.P99Ms)
	}
	fmt.Println()

	// Record final stats
	var finalStats runtime.MemStats
	runtime.ReadMemStats(&finalStats)
	finalGoroutines := runtime.NumGoroutine()

	fmt.Printf("Final state:\n")
	fmt.Printf("  Goroutines: %d (delta: %+d)\n", finalGoroutines, finalGoroutines-initialGoroutines)
	fmt.Printf("  Memory Allocated: %.2f MB (delta: %+.2f MB)\n",
		float64(finalStats.Alloc)/1024/1024,
		float64(finalStats.Alloc)/1024/1024-float64(initialStats.Alloc)/1024/1024)
	fmt.Printf("  System Memory: %.2f MB (delta: %+.2f MB)\n",
		float64(finalStats.Sys)/1024/1024,
		float64(finalStats.Sys)/1024/1024-float64(initialStats.Sys)/1024/1024)
	fmt.Printf("  Total GC Runs: %d\n", finalStats.NumGC-initialStats.NumGC)
	fmt.Println()

	// Check for goroutine leaks
	if finalGoroutines > initialGoroutines+5 {
		fmt.Printf("⚠ WARNING: Possible goroutine leak detected! (+%d goroutines)\n", finalGoroutines-initialGoroutines)
	} else {
		fmt.Println("✓ No goroutine leaks detected")
	}

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal("could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
		fmt.Printf("✓ Memory profile written to: %s\n", *memProfile)
	}

	// Write goroutine profile if requested
	if *goroutineProfile != "" {
		f, err := os.Create(*goroutineProfile)
		if err != nil {
			log.Fatal("could not create goroutine profile: ", err)
		}
		defer f.Close()
		if err := pprof.Lookup("goroutine").WriteTo(f, 0); err != nil {
			log.Fatal("could not write goroutine profile: ", err)
		}
		fmt.Printf("✓ Goroutine profile written to: %s\n", *goroutineProfile)
	}

	fmt.Println()

	if err != nil {
		fmt.Printf("✗ Test failed: %v\n", err)
		os.Exit(1)
	}
	if rep != nil && rep.Status == report.StatusFail {
		fmt.Printf("✗ Run classified FAIL: %s\n", rep.Error)
		os.Exit(1)
	}

	fmt.Println("✓ Test completed successfully!")
	fmt.Println()
	fmt.Println("To analyze profiles:")
	if *cpuProfile != "" {
		fmt.Printf("  go tool pprof %s\n", *cpuProfile)
	}
	if *memProfile != "" {
		fmt.Printf("  go tool pprof %s\n", *memProfile)
	}
	if *goroutineProfile != "" {
		fmt.Printf("  go tool pprof %s\n", *goroutineProfile)
	}
}
