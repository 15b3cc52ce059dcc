package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/chunkpool/chunkpool/pkg/chunkpool"
)

// REPL is the interactive command loop, modelled directly on the teacher's
// cmd/sloty REPL: a liner.State prompt, history file, and a plain
// switch-based command dispatch.
type REPL struct {
	pool    *chunkpool.Pool
	liner   *liner.State
	handles map[string]chunkpool.Handle
	nextID  int
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".poolctl_history")
}

// Run starts the REPL loop and blocks until the user exits.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("poolctl - chunkpool CLI (chunk_size=%d, chunk_count=%d)\n", r.pool.ChunkSize(), r.pool.ChunkCount())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("poolctl> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "alloc":
			r.cmdAlloc(args)

		case "free":
			r.cmdFree(args)

		case "clear":
			r.cmdClear()

		case "dump":
			r.cmdDump(args)

		case "stats", "info":
			r.cmdStats()

		case "ls", "list":
			r.cmdList()

		case "cls":
			fmt.Print("\033[H\033[2J")

		case "bench":
			r.cmdBench(args)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	verbs := []string{"alloc", "free", "clear", "dump", "stats", "ls", "bench", "help", "exit"}

	var out []string

	for _, v := range verbs {
		if strings.HasPrefix(v, line) {
			out = append(out, v)
		}
	}

	return out
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  alloc <bytes>            Allocate bytes, prints a handle id")
	fmt.Println("  free <id>                Free a previously allocated handle id")
	fmt.Println("  clear                    Reset the pool; invalidates all handle ids")
	fmt.Println("  dump raw|map|debug [file] Print (or write) a diagnostic dump")
	fmt.Println("  stats                    Show pool_size/chunk_size/free/used")
	fmt.Println("  ls                       List currently tracked handle ids")
	fmt.Println("  bench <n>                Run n alloc/free cycles and report timing")
	fmt.Println("  help                     Show this help")
	fmt.Println("  exit / quit / q          Exit")
}

func (r *REPL) cmdAlloc(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: alloc <bytes>")

		return
	}

	bytes, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("invalid byte count:", args[0])

		return
	}

	h, err := r.pool.Alloc(bytes)
	if err != nil {
		fmt.Println("alloc failed:", err)

		return
	}

	r.nextID++
	id := fmt.Sprintf("h%d", r.nextID)
	r.handles[id] = h

	fmt.Printf("%s: %d bytes\n", id, len(h.Bytes()))
}

func (r *REPL) cmdFree(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: free <id>")

		return
	}

	h, ok := r.handles[args[0]]
	if !ok {
		fmt.Println("unknown handle id:", args[0])

		return
	}

	if err := r.pool.Free(h); err != nil {
		fmt.Println("free failed:", err)

		return
	}

	delete(r.handles, args[0])
	fmt.Println("freed", args[0])
}

func (r *REPL) cmdClear() {
	r.pool.Clear()
	r.handles = map[string]chunkpool.Handle{}
	fmt.Println("pool cleared")
}

func (r *REPL) cmdDump(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: dump raw|map|debug [file]")

		return
	}

	var content string

	switch args[0] {
	case "raw":
		content = r.pool.RawDump()
	case "map":
		content = r.pool.ChunkMapDump()
	case "debug":
		content = r.pool.DebugDump()
	default:
		fmt.Println("unknown dump kind:", args[0])

		return
	}

	if len(args) == 2 {
		if err := dumpToFile(args[1], content); err != nil {
			fmt.Println("writing dump file failed:", err)

			return
		}

		fmt.Println("wrote", args[1])

		return
	}

	fmt.Print(content)
}

func (r *REPL) cmdStats() {
	fmt.Printf("pool_size:   %d\n", r.pool.PoolSize())
	fmt.Printf("chunk_size:  %d\n", r.pool.ChunkSize())
	fmt.Printf("chunk_count: %d\n", r.pool.ChunkCount())
	fmt.Printf("free_chunks: %d\n", r.pool.FreeChunks())
	fmt.Printf("used_chunks: %d\n", r.pool.UsedChunks())
}

func (r *REPL) cmdList() {
	if len(r.handles) == 0 {
		fmt.Println("no live handles")

		return
	}

	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		h := r.handles[id]
		fmt.Printf("%s: %d bytes, valid=%v\n", id, len(h.Bytes()), h.IsValid())
	}
}

func (r *REPL) cmdBench(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: bench <n>")

		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		fmt.Println("invalid count:", args[0])

		return
	}

	runBench(r.pool, n)
}
