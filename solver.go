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
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// rootPackage is the synthetic package every solve is seeded against; its
// "dependencies" are the caller's direct constraints.
var rootPackage = PackageReference{Identity: reservedRootIdentity, Display: "root"}

// Solver implements the PubGrub dependency resolution algorithm with CDCL
// (conflict-driven clause learning) and backjumping.
//
// A Solver is built once against a ContainerProvider and reused across
// calls to Solve, so the container gateway's cache is shared between
// solves of related constraint sets.
//
//	solver := NewSolver(provider, WithMaxSteps(50000))
//	result, err := solver.Solve(ctx, []Constraint{
//	    {Package: app, Requirement: RangeRequirement(v1, true, v2, false)},
//	})
type Solver struct {
	gateway *ContainerGateway
	options SolverOptions
}

// NewSolver builds a Solver backed by provider.
func NewSolver(provider ContainerProvider, opts ...SolverOption) *Solver {
	options := defaultSolverOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	gateway := NewContainerGateway(provider,
		WithGatewayLogger(options.Logger),
		WithGatewayTrace(options.Trace),
		WithSkipUpdate(options.SkipUpdate),
	)
	return &Solver{gateway: gateway, options: options}
}

// Configure applies additional options to an existing solver.
func (s *Solver) Configure(opts ...SolverOption) *Solver {
	for _, opt := range opts {
		if opt != nil {
			opt(&s.options)
		}
	}
	return s
}

// Solve resolves constraints against the solver's provider, returning the
// resolved package set or an UnresolvableError (see error.go for the full
// error taxonomy) describing why no solution exists.
func (s *Solver) Solve(ctx context.Context, constraints []Constraint) (Result, error) {
	if s.options.Logger != nil {
		s.options.Logger.WithField("constraints", len(constraints)).Debug("starting solver")
	}

	state := newSolverState(s.gateway, s.options, rootPackage)
	state.partial.seedRoot()
	state.addIncompatibility(NewRootIncompatibility(rootPackage))

	rootDeps := make([]Dependency, 0, len(constraints))
	for _, c := range constraints {
		rootDeps = append(rootDeps, Dependency{Package: c.Package, Req: c.Requirement})
	}
	state.registerDependencies(rootPackage, UnversionedBound(), rootDeps)

	var pendingPropagateSeed PackageReference

	for steps := 0; ; steps++ {
		if s.options.MaxSteps > 0 && steps >= s.options.MaxSteps {
			return nil, ErrIterationLimit{Steps: s.options.MaxSteps}
		}

		seed := pendingPropagateSeed
		pendingPropagateSeed = PackageReference{}

		conflict := state.propagate(seed)
		if conflict != nil {
			pivot, learned, err := state.resolveConflict(conflict)
			if err != nil {
				var unresolvable *UnresolvableError
				if errors.As(err, &unresolvable) {
					return nil, s.fail(state, unresolvable.Incompatibility)
				}
				return nil, err
			}
			_ = learned
			pendingPropagateSeed = pivot
			continue
		}

		if state.partial.IsComplete() {
			return state.partial.BuildResult(), nil
		}

		nextPkg, ok := state.partial.NextUndecided()
		if !ok {
			return state.partial.BuildResult(), nil
		}

		container, err := s.gateway.Get(ctx, nextPkg)
		if err != nil {
			var notFound *PackageNotFoundError
			var missing *MissingVersionsError
			if errors.As(err, &notFound) || errors.As(err, &missing) {
				inc := state.noVersionsIncompatibility(nextPkg)
				if inc.IsFailure() {
					return nil, s.fail(state, inc)
				}
				state.addIncompatibility(inc)
				continue
			}
			return nil, err
		}

		bound, found := state.pickVersion(container)
		if !found {
			inc := state.noVersionsIncompatibility(nextPkg)
			if inc.IsFailure() {
				return nil, s.fail(state, inc)
			}
			state.addIncompatibility(inc)
			continue
		}

		if s.options.Logger != nil {
			s.options.Logger.WithFields(logrus.Fields{"step": steps, "package": nextPkg.String(), "bound": bound.String()}).Debug("making decision")
		}

		a := state.partial.Decide(nextPkg, bound)
		state.traceAssignment("decide", a)

		deps, err := s.gateway.Dependencies(ctx, nextPkg, bound)
		if err != nil {
			return nil, newProviderError(nextPkg, bound, err)
		}
		state.registerDependencies(nextPkg, bound, deps)

		if s.options.Prefetch && len(deps) > 0 {
			pkgs := make([]PackageReference, 0, len(deps))
			for _, d := range deps {
				pkgs = append(pkgs, d.Package)
			}
			go func() { _ = s.gateway.Prefetch(context.Background(), pkgs) }()
		}
	}
}

// fail produces the final UnresolvableError for a failed solve from the
// terminal incompatibility; the learned incompatibilities are not attached.
func (s *Solver) fail(state *solverState, incomp *Incompatibility) error {
	if incomp == nil {
		incomp = NewRootIncompatibility(rootPackage)
	}
	return NewUnresolvableError(incomp)
}
