package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// DefaultLogCapacity is how many entries the in-memory ring keeps
const DefaultLogCapacity = 1000

// LogEntry is one line of simulation output
type LogEntry struct {
	Timestamp time.Time
	Scope     string
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// LogSink persists log lines outside the process
type LogSink interface {
	Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error
}

// SimulationLogger keeps recent entries in memory, prints them and hands
// them to an optional sink in the background
type SimulationLogger struct {
	mu       sync.RWMutex
	scope    string
	clock    shared.Clock
	out      io.Writer
	outMu    sync.Mutex
	minLevel int
	capacity int
	entries  []LogEntry

	sink    LogSink
	pending sync.WaitGroup
}

// LoggerOptions configures a SimulationLogger. Zero values fall back to
// stdout, INFO and DefaultLogCapacity.
type LoggerOptions struct {
	Out      io.Writer
	Level    string
	Capacity int
	Sink     LogSink
}

// NewSimulationLogger creates a logger stamping entries with clock time
func NewSimulationLogger(scope string, clock shared.Clock, opts LoggerOptions) *SimulationLogger {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultLogCapacity
	}
	return &SimulationLogger{
		scope:    scope,
		clock:    clock,
		out:      opts.Out,
		minLevel: levelRank(opts.Level),
		capacity: opts.Capacity,
		entries:  make([]LogEntry, 0, 64),
		sink:     opts.Sink,
	}
}

// Log records an entry. Entries below the configured level are dropped.
func (l *SimulationLogger) Log(level, message string, metadata map[string]interface{}) {
	level = strings.ToUpper(level)
	if levelRank(level) < l.minLevel {
		return
	}
	entry := LogEntry{
		Timestamp: l.clock.Now(),
		Scope:     l.scope,
		Level:     level,
		Message:   message,
		Metadata:  metadata,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
	l.mu.Unlock()

	l.printf("[%s] [%s] %s: %s%s\n",
		entry.Timestamp.Format(time.RFC3339),
		entry.Scope,
		entry.Level,
		entry.Message,
		formatMetadata(metadata),
	)

	if l.sink == nil {
		return
	}
	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.sink.Log(ctx, l.scope, message, level, metadata); err != nil {
			l.printf("[%s] [%s] ERROR: Failed to persist log: %v\n",
				time.Now().UTC().Format(time.RFC3339), l.scope, err)
		}
	}()
}

// printf serialises writes to out; sink failures are reported from
// background goroutines
func (l *SimulationLogger) printf(format string, args ...interface{}) {
	l.outMu.Lock()
	defer l.outMu.Unlock()
	fmt.Fprintf(l.out, format, args...)
}

// Entries returns up to limit recent entries, oldest first, optionally
// filtered by level. A limit of zero returns everything kept.
func (l *SimulationLogger) Entries(limit int, level string) []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	filtered := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if level != "" && !strings.EqualFold(e.Level, level) {
			continue
		}
		filtered = append(filtered, e)
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered
}

// Flush waits for in-flight sink writes
func (l *SimulationLogger) Flush() {
	l.pending.Wait()
}

func levelRank(level string) int {
	switch strings.ToUpper(level) {
	case shared.LevelDebug:
		return 0
	case shared.LevelWarning, "WARN":
		return 2
	case shared.LevelError:
		return 3
	default:
		return 1
	}
}

func formatMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	return b.String()
}
