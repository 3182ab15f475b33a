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

import "github.com/sirupsen/logrus"

// SolverOptions configures solver behavior: incompatibility tracking for
// detailed error reporting, iteration limits, logging, prefetching, and
// offline/incomplete mode.
type SolverOptions struct {
	// TrackIncompatibilities enables collecting every incompatibility added
	// during a solve into the solver state's learned list. The list is not
	// exposed: the UnresolvableError returned on failure is the same with
	// or without tracking.
	TrackIncompatibilities bool

	// MaxSteps limits solver iterations. 0 disables the limit. Default:
	// 100000.
	MaxSteps int

	// Logger receives structured debug records of every solver-loop
	// transition. nil disables logging.
	Logger logrus.FieldLogger

	// Trace receives TraceEvent records alongside (or instead of) Logger;
	// see trace.go.
	Trace TraceSink

	// Prefetch, when true, speculatively warms the container gateway's
	// cache for a package's dependencies as soon as it is decided, rather
	// than waiting for unit propagation to need them (spec.md §5
	// "prefetch(ps)").
	Prefetch bool

	// SkipUpdate puts the container gateway in incomplete/offline mode:
	// packages not already cached surface MissingVersionsError instead of
	// triggering a fresh fetch (spec.md §6/§7).
	SkipUpdate bool
}

// SolverOption is a functional option for configuring the solver.
type SolverOption func(*SolverOptions)

const defaultMaxSteps = 100000

func defaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxSteps: defaultMaxSteps,
		Trace:    noopTraceSink{},
	}
}

// WithIncompatibilityTracking enables or disables learned-clause tracking.
func WithIncompatibilityTracking(enabled bool) SolverOption {
	return func(o *SolverOptions) { o.TrackIncompatibilities = enabled }
}

// WithMaxSteps sets the maximum number of solver iterations; 0 disables
// the limit.
func WithMaxSteps(steps int) SolverOption {
	return func(o *SolverOptions) {
		if steps <= 0 {
			o.MaxSteps = 0
		} else {
			o.MaxSteps = steps
		}
	}
}

// WithLogger attaches a structured logger to the solver.
func WithLogger(logger logrus.FieldLogger) SolverOption {
	return func(o *SolverOptions) { o.Logger = logger }
}

// WithTrace attaches a trace sink to the solver.
func WithTrace(sink TraceSink) SolverOption {
	return func(o *SolverOptions) {
		if sink == nil {
			sink = noopTraceSink{}
		}
		o.Trace = sink
	}
}

// WithPrefetch enables or disables speculative dependency prefetching.
func WithPrefetch(enabled bool) SolverOption {
	return func(o *SolverOptions) { o.Prefetch = enabled }
}

// WithSkipUpdateOption puts the solver's container gateway in
// incomplete/offline mode.
func WithSkipUpdateOption(enabled bool) SolverOption {
	return func(o *SolverOptions) { o.SkipUpdate = enabled }
}
