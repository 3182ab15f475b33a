// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pubgrub

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
)

// TraceKind distinguishes the two shapes of trace record the solver emits
// (spec.md §6 delegate.trace contract).
type TraceKind int

const (
	// TraceGeneral records a single-line solver-loop transition (seed,
	// decide, propagate, fetch).
	TraceGeneral TraceKind = iota
	// TraceConflictResolution records one step of the CDCL backjumping
	// loop: the conflict under analysis and the previous satisfier level.
	// The solver leaves Cause1 and Cause2 unset on these events.
	TraceConflictResolution
)

// TraceEvent is one record a TraceSink receives.
type TraceEvent struct {
	Kind      TraceKind
	Package   PackageReference
	Message   string
	Conflict  *Incompatibility
	Cause1    *Incompatibility
	Cause2    *Incompatibility
	Level     int
}

// TraceSink receives trace events as the solver runs. Implementations must
// be safe for concurrent use -- Prefetch (gateway.go) may call Trace from
// multiple goroutines.
type TraceSink interface {
	Trace(event TraceEvent)
}

// noopTraceSink discards every event; used when no sink is configured.
type noopTraceSink struct{}

func (noopTraceSink) Trace(TraceEvent) {}

// FileTraceSink writes one line per event to a file, flushing after every
// write so a crash mid-solve still leaves a readable trace. Each sink
// instance stamps a run-level correlation id (via google/uuid) onto every
// line it writes, so interleaved traces from a Prefetch fan-out across
// goroutines can still be grouped back into one run.
type FileTraceSink struct {
	mu      sync.Mutex
	w       *bufio.Writer
	closer  io.Closer
	runID   uuid.UUID
	counter int
}

// NewFileTraceSink opens path for append, creating it if necessary, and
// returns a sink that writes to it.
func NewFileTraceSink(path string) (*FileTraceSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileTraceSink{
		w:      bufio.NewWriter(f),
		closer: f,
		runID:  uuid.New(),
	}, nil
}

// Trace renders and writes a single event, flushing immediately.
func (s *FileTraceSink) Trace(event TraceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++

	switch event.Kind {
	case TraceConflictResolution:
		fmt.Fprintf(s.w, "%s #%d level=%d conflict-resolution conflict=%q cause1=%q cause2=%q\n",
			s.runID, s.counter, event.Level, safeString(event.Conflict), safeString(event.Cause1), safeString(event.Cause2))
	default:
		fmt.Fprintf(s.w, "%s #%d %s %s\n", s.runID, s.counter, event.Package, event.Message)
	}
	_ = s.w.Flush()
}

// Close flushes and closes the underlying file.
func (s *FileTraceSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.w.Flush()
	return s.closer.Close()
}

func safeString(inc *Incompatibility) string {
	if inc == nil {
		return "<nil>"
	}
	return inc.String()
}
