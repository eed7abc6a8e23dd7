package trace

import (
	"sort"
	"sync"

	"github.com/oisee/so-emulator/pkg/cpu"
)

// Entry is one recorded step: which core produced it, in what call
// sequence, and the resulting register file.
type Entry struct {
	Core     int
	Sequence int
	State    cpu.CpuState
}

// Recorder is an append-only, concurrency-safe log of per-core step
// results, for harnesses that want a trace of a multi-core run after the
// fact instead of printing as they go. A single mutex guards both append
// and snapshot-read.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	seq     int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one core's resulting state, tagging it with a
// monotonically increasing sequence number so callers can recover call
// order even when multiple cores record concurrently.
func (r *Recorder) Record(core int, state cpu.CpuState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.entries = append(r.entries, Entry{Core: core, Sequence: r.seq, State: state})
}

// Entries returns a copy of every recorded entry, sorted by core then by
// sequence number.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Core != out[j].Core {
			return out[i].Core < out[j].Core
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
