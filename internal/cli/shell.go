// Package cli implements the interactive kvstore shell: a line-oriented
// command loop that parses simple commands and dispatches them to a store.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"kvstore/internal/store"
)

const prompt = "kvstore> "

// Shell reads commands from in, runs them against the store and writes
// results to out. It holds no state beyond the store reference, so it is as
// testable with a strings.Reader as it is interactive on stdin.
type Shell struct {
	store *store.Store
	in    io.Reader
	out   io.Writer
}

// New creates a shell bound to the given store and streams.
func New(s *store.Store, in io.Reader, out io.Writer) *Shell {
	return &Shell{store: s, in: in, out: out}
}

// Run processes commands until QUIT or end of input. It returns the scanner
// error, if any; a clean EOF is a normal exit.
func (sh *Shell) Run() error {
	fmt.Fprintln(sh.out, "kvstore - in-memory key-value store with LRU eviction")
	fmt.Fprintln(sh.out, "Type HELP for available commands.")
	fmt.Fprintln(sh.out)

	scanner := bufio.NewScanner(sh.in)
	// PUT lines carry whole values; allow them to be long.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	fmt.Fprint(sh.out, prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !sh.dispatch(line) {
			return nil
		}
		fmt.Fprint(sh.out, prompt)
	}
	return scanner.Err()
}

// dispatch runs one command line and reports whether the loop should
// continue.
func (sh *Shell) dispatch(line string) bool {
	tokens := strings.Fields(line)
	command := strings.ToUpper(tokens[0])

	switch command {
	case "GET":
		if len(tokens) != 2 {
			fmt.Fprintln(sh.out, "Usage: GET <key>")
			return true
		}
		if value, ok := sh.store.Get(tokens[1]); ok {
			fmt.Fprintf(sh.out, "%q\n", string(value))
		} else {
			fmt.Fprintln(sh.out, "(nil)")
		}

	case "PUT":
		if len(tokens) < 3 {
			fmt.Fprintln(sh.out, "Usage: PUT <key> <value>")
			return true
		}
		// Everything after the key is the value, spaces included.
		value := strings.Join(tokens[2:], " ")
		sh.store.Put(tokens[1], []byte(value))
		fmt.Fprintln(sh.out, "OK")

	case "DEL":
		if len(tokens) != 2 {
			fmt.Fprintln(sh.out, "Usage: DEL <key>")
			return true
		}
		if sh.store.Remove(tokens[1]) {
			fmt.Fprintln(sh.out, "1")
		} else {
			fmt.Fprintln(sh.out, "0")
		}

	case "CLEAR":
		sh.store.Clear()
		fmt.Fprintln(sh.out, "OK")

	case "SIZE":
		fmt.Fprintln(sh.out, sh.store.Len())

	case "STATS":
		sh.printStats()

	case "SAVE":
		if err := sh.store.SaveSnapshot(); err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		} else {
			fmt.Fprintln(sh.out, "Snapshot saved")
		}

	case "LOAD":
		loaded, err := sh.store.LoadSnapshot()
		switch {
		case err != nil:
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		case loaded:
			fmt.Fprintln(sh.out, "Snapshot loaded")
		default:
			fmt.Fprintln(sh.out, "Failed to load snapshot")
		}

	case "HELP":
		sh.printHelp()

	case "QUIT", "EXIT":
		fmt.Fprintln(sh.out, "Goodbye!")
		return false

	default:
		fmt.Fprintln(sh.out, "Unknown command. Type HELP for available commands.")
	}
	return true
}

func (sh *Shell) printHelp() {
	fmt.Fprint(sh.out, `Available commands:
  GET <key>           - Get value for key
  PUT <key> <value>   - Set key to value
  DEL <key>           - Delete key
  CLEAR               - Clear all entries
  SIZE                - Show number of entries
  STATS               - Show performance statistics
  SAVE                - Save snapshot to disk
  LOAD                - Load snapshot from disk
  HELP                - Show this help
  QUIT                - Exit the program
`)
}

func (sh *Shell) printStats() {
	m := sh.store.Metrics()
	fmt.Fprintf(sh.out, `Performance statistics:
  Total operations: %d
  Cache hits: %d
  Cache misses: %d
  Hit rate: %.2f%%
  Evictions: %d
  Operations/sec: %.2f
  Current size: %d
`, m.TotalOperations, m.CacheHits, m.CacheMisses, m.HitRate*100,
		m.Evictions, m.OperationsPerSecond, sh.store.Len())
}
