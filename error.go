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
	"fmt"

	"github.com/pkg/errors"
)

// UnresolvableError is returned when version solving proves no solution
// exists. It carries the root incompatibility of the derivation DAG, which
// Reporter (report.go) can expand into a full English explanation.
type UnresolvableError struct {
	Incompatibility *Incompatibility
	Reporter        Reporter
}

func (e *UnresolvableError) Error() string {
	if e.Incompatibility == nil {
		return "no solution found"
	}
	reporter := e.Reporter
	if reporter == nil {
		reporter = &DefaultReporter{}
	}
	return reporter.Report(e.Incompatibility)
}

// WithReporter returns a copy of e using a custom Reporter.
func (e *UnresolvableError) WithReporter(reporter Reporter) *UnresolvableError {
	return &UnresolvableError{Incompatibility: e.Incompatibility, Reporter: reporter}
}

// NewUnresolvableError builds an UnresolvableError from the incompatibility
// that proved unsatisfiability.
func NewUnresolvableError(incomp *Incompatibility) *UnresolvableError {
	return &UnresolvableError{Incompatibility: incomp, Reporter: &DefaultReporter{}}
}

// MissingVersionsError is returned when the container gateway is running
// with WithSkipUpdate and pkg was never cached (spec.md §6/§7). A provider
// error (such as PackageNotFoundError) is passed through unwrapped.
type MissingVersionsError struct {
	Package PackageReference
	Err     error
}

func (e *MissingVersionsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no versions available for %s: %v", e.Package, e.Err)
	}
	return fmt.Sprintf("no versions available for %s", e.Package)
}

func (e *MissingVersionsError) Unwrap() error { return e.Err }

// IncompatibleConstraintsError describes two requirements on the same
// package that no bound can satisfy together. Solve does not return it:
// conflicting direct constraints surface as an UnresolvableError.
type IncompatibleConstraintsError struct {
	Package PackageReference
	First   Requirement
	Second  Requirement
}

func (e *IncompatibleConstraintsError) Error() string {
	return fmt.Sprintf("incompatible constraints on %s: %s and %s", e.Package, e.First, e.Second)
}

// CycleError describes a dependency path that leads back to its first
// package. Solve does not return it: dependency registration performs no
// cycle detection.
type CycleError struct {
	Path []PackageReference
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "dependency cycle detected"
	}
	msg := "dependency cycle: "
	for i, pkg := range e.Path {
		if i > 0 {
			msg += " -> "
		}
		msg += pkg.String()
	}
	return msg
}

// ProviderError wraps a failure returned by a ContainerProvider while
// fetching dependencies for an already-decided package.
type ProviderError struct {
	Package PackageReference
	Bound   BoundVersion
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("failed to get dependencies for %s %s: %v", e.Package, e.Bound, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// newProviderError wraps err with pkg.errors so a later %+v format verb
// prints the originating stack, matching golang-dep's error-wrapping
// convention throughout toml.go/errors.go.
func newProviderError(pkg PackageReference, bound BoundVersion, err error) *ProviderError {
	return &ProviderError{Package: pkg, Bound: bound, Err: errors.Wrapf(err, "provider fetch for %s", pkg)}
}

// ErrIterationLimit is returned when the solver exceeds its configured
// maximum step count (WithMaxSteps). This guards against runaway search on
// pathological inputs; set MaxSteps to 0 to disable the limit.
type ErrIterationLimit struct {
	Steps int
}

func (e ErrIterationLimit) Error() string {
	if e.Steps <= 0 {
		return "solver exceeded iteration limit"
	}
	return fmt.Sprintf("solver exceeded iteration limit after %d steps", e.Steps)
}

// InternalError marks a violated solver invariant: a state that should be
// unreachable given well-formed input. It is never returned as a
// recoverable error -- call sites panic with it, and callers of Solve are
// expected to let that panic propagate (or recover it at a process
// boundary), since it indicates a bug in the solver itself rather than an
// unsatisfiable dependency graph.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal invariant violation: %s", e.Message)
}

var (
	_ error = (*UnresolvableError)(nil)
	_ error = (*MissingVersionsError)(nil)
	_ error = (*IncompatibleConstraintsError)(nil)
	_ error = (*CycleError)(nil)
	_ error = (*ProviderError)(nil)
	_ error = ErrIterationLimit{}
	_ error = (*InternalError)(nil)
	_ error = (*PackageNotFoundError)(nil)
	_ error = (*PackageVersionNotFoundError)(nil)
)
