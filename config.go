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
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// configDocument is the on-disk shape of solver configuration, e.g.:
//
//	track_incompatibilities = true
//	max_steps = 50000
//	prefetch = true
//	skip_update = false
//	trace_file = "/var/log/solver-trace.log"
type configDocument struct {
	TrackIncompatibilities bool   `toml:"track_incompatibilities"`
	MaxSteps               int    `toml:"max_steps"`
	Prefetch               bool   `toml:"prefetch"`
	SkipUpdate             bool   `toml:"skip_update"`
	TraceFile              string `toml:"trace_file"`
}

// LoadOptions parses a TOML document into a set of SolverOption values. A
// non-empty trace_file opens a FileTraceSink and wires it in via
// WithTrace; the caller is responsible for closing it (the returned
// closer is nil when no trace file was configured).
func LoadOptions(r io.Reader) ([]SolverOption, io.Closer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading solver config")
	}

	var doc configDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrap(err, "parsing solver config")
	}

	opts := []SolverOption{
		WithIncompatibilityTracking(doc.TrackIncompatibilities),
		WithMaxSteps(doc.MaxSteps),
		WithPrefetch(doc.Prefetch),
		WithSkipUpdateOption(doc.SkipUpdate),
	}

	var closer io.Closer
	if doc.TraceFile != "" {
		sink, err := NewFileTraceSink(doc.TraceFile)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "opening trace file %q", doc.TraceFile)
		}
		opts = append(opts, WithTrace(sink))
		closer = sink
	}

	return opts, closer, nil
}
