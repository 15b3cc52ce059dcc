// poolctl is a small CLI/REPL for exercising a chunkpool.Pool: construct one
// from flags or a config file, then alloc/free/dump/inspect it
// interactively. Modelled on the teacher's cmd/sloty (open-then-REPL) and
// internal/cli (pflag-based global flag parsing).
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/chunkpool/chunkpool/internal/poolconfig"
	"github.com/chunkpool/chunkpool/pkg/chunkpool"
)

func main() {
	os.Exit(run(os.Args, os.Environ()))
}

func run(args []string, env []string) int {
	flags := flag.NewFlagSet("poolctl", flag.ContinueOnError)
	flagHelp := flags.BoolP("help", "h", false, "Show help")
	flagCwd := flags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := flags.StringP("config", "c", "", "Use specified config `file`")
	flagChunkSize := flags.Int("chunk-size", 0, "Override chunk size in bytes")
	flagChunkCount := flags.Int("chunk-count", 0, "Override chunk count")
	flagLogPath := flags.String("log", "", "Append diagnostic events to `file`")
	flagBench := flags.Int("bench", 0, "Run `n` alloc/free cycles as a benchmark and exit")

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		return 1
	}

	if *flagHelp {
		printUsage(flags)

		return 0
	}

	workDir := *flagCwd
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)

			return 1
		}

		workDir = wd
	}

	cliOverrides := poolconfig.Config{
		ChunkSize:  *flagChunkSize,
		ChunkCount: *flagChunkCount,
		LogPath:    *flagLogPath,
	}

	cfg, _, err := poolconfig.Load(
		workDir, *flagConfig, cliOverrides,
		flags.Changed("chunk-size"), flags.Changed("chunk-count"), env,
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		return 1
	}

	sink, closeSink, err := openDiagnosticSink(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		return 1
	}
	defer closeSink()

	pool, err := chunkpool.New(chunkpool.Config{
		ChunkSize:  cfg.ChunkSize,
		ChunkCount: cfg.ChunkCount,
		Diagnostic: sink,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		return 1
	}
	defer pool.Destroy()

	if *flagBench > 0 {
		runBench(pool, *flagBench)

		return 0
	}

	repl := &REPL{pool: pool, handles: map[string]chunkpool.Handle{}}
	if err := repl.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		return 1
	}

	return 0
}

func printUsage(flags *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "Usage: poolctl [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Opens a chunkpool.Pool and drops into an interactive REPL.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flags.PrintDefaults()
}

// openDiagnosticSink returns a func(string) that appends a line to path
// (created if necessary) and a closer to flush/close it. If path is empty,
// the sink is nil and the closer is a no-op - matching chunkpool.Config's
// "nil Diagnostic means no sink" contract.
func openDiagnosticSink(path string) (func(string), func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // path is user-configured
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	w := bufio.NewWriter(f)

	sink := func(line string) {
		fmt.Fprintln(w, line)
	}

	closer := func() {
		_ = w.Flush()
		_ = f.Close()
	}

	return sink, closer, nil
}

// dumpToFile atomically writes content to path, the same crash-safe
// whole-file-replace pattern the teacher uses for ticket files and cache
// snapshots.
func dumpToFile(path, content string) error {
	return atomic.WriteFile(path, strings.NewReader(content))
}

func runBench(pool *chunkpool.Pool, n int) {
	start := time.Now()

	handles := make([]chunkpool.Handle, 0, n)

	for i := 0; i < n; i++ {
		h, err := pool.Alloc(pool.ChunkSize())
		if err != nil {
			fmt.Printf("alloc %d failed: %v\n", i, err)

			break
		}

		handles = append(handles, h)
	}

	allocElapsed := time.Since(start)

	freeStart := time.Now()

	for _, h := range handles {
		if err := pool.Free(h); err != nil {
			fmt.Printf("free failed: %v\n", err)
		}
	}

	freeElapsed := time.Since(freeStart)

	fmt.Printf("alloc: %d ops in %s (%.0f ops/s)\n", len(handles), allocElapsed, float64(len(handles))/allocElapsed.Seconds())
	fmt.Printf("free:  %d ops in %s (%.0f ops/s)\n", len(handles), freeElapsed, float64(len(handles))/freeElapsed.Seconds())
}
