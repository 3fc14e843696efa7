package diag

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"text/tabwriter"
	"time"
)

var started = time.Now()

func runtimeCommands(version string) []command {
	if version == "" {
		version = "dev"
	}
	return []command{
		{name: "runtime", fn: runtimeSummary, help: "Go runtime summary; enter for details"},
		{parent: "runtime", name: "goroutines", fn: goroutines, help: "Number of goroutines"},
		{parent: "runtime", name: "memstats", fn: memstats, help: "Heap and GC statistics"},
		{parent: "runtime", name: "gc", fn: forceGC, help: "Run a garbage collection"},
		{parent: "runtime", name: "version", fn: func(w io.Writer, _ []string) {
			fmt.Fprintf(w, "version=%s go=%s os=%s arch=%s\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		}, help: "Build and toolchain versions"},
	}
}

func runtimeSummary(w io.Writer, _ []string) {
	fmt.Fprintf(w, "uptime=%s goroutines=%d cpus=%d\n",
		time.Since(started).Round(time.Second), runtime.NumGoroutine(), runtime.NumCPU())
}

func goroutines(w io.Writer, _ []string) {
	fmt.Fprintf(w, "%d\n", runtime.NumGoroutine())
}

func memstats(w io.Writer, _ []string) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "heap_alloc\t%d\n", ms.HeapAlloc)
	fmt.Fprintf(tw, "heap_inuse\t%d\n", ms.HeapInuse)
	fmt.Fprintf(tw, "heap_objects\t%d\n", ms.HeapObjects)
	fmt.Fprintf(tw, "sys\t%d\n", ms.Sys)
	fmt.Fprintf(tw, "num_gc\t%d\n", ms.NumGC)
	fmt.Fprintf(tw, "pause_total\t%s\n", time.Duration(ms.PauseTotalNs))
	_ = tw.Flush()
}

func forceGC(w io.Writer, _ []string) {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	runtime.GC()
	debug.FreeOSMemory()
	runtime.ReadMemStats(&after)
	fmt.Fprintf(w, "gc ok took=%s heap_alloc=%d->%d\n",
		time.Since(start).Round(time.Microsecond), before.HeapAlloc, after.HeapAlloc)
}
