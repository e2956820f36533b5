package inmemory

import (
	"sync"
)

type Snapshot struct {
	CommandTotal    uint64            `json:"command_total"`
	CommandSuccess  uint64            `json:"command_success"`
	CommandRejected uint64            `json:"command_rejected"`
	CommandFailure  uint64            `json:"command_failure"`
	TicksRun        uint64            `json:"ticks_run"`
	ByCommand       map[string]uint64 `json:"by_command"`
	ByRejection     map[string]uint64 `json:"by_rejection"`
}

type Recorder struct {
	mu          sync.Mutex
	success     uint64
	rejected    uint64
	failure     uint64
	ticks       uint64
	byCommand   map[string]uint64
	byRejection map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byCommand:   map[string]uint64{},
		byRejection: map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byCommand[command]++
}

func (r *Recorder) RecordRejected(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byRejection[code]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) RecordTicks(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks += uint64(n)
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CommandSuccess:  r.success,
		CommandRejected: r.rejected,
		CommandFailure:  r.failure,
		CommandTotal:    r.success + r.rejected + r.failure,
		TicksRun:        r.ticks,
		ByCommand:       make(map[string]uint64, len(r.byCommand)),
		ByRejection:     make(map[string]uint64, len(r.byRejection)),
	}
	for k, v := range r.byCommand {
		out.ByCommand[k] = v
	}
	for k, v := range r.byRejection {
		out.ByRejection[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
