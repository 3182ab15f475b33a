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
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Dependency is one edge out of a decided package@bound: the package it
// depends on and the requirement it places on it.
type Dependency struct {
	Package PackageReference
	Req     Requirement
}

// String renders the dependency for trace output.
func (d Dependency) String() string {
	return fmt.Sprintf("%s %s", d.Package, d.Req)
}

// Container is the resolved metadata the solver needs about one package:
// its full catalogue of released versions (ascending). Dependency edges are
// not held here; ContainerGateway.Dependencies fetches them for each bound
// the solver actually decides on.
type Container struct {
	Package  PackageReference
	Versions []*semver.Version
}

// ContainerProvider is the external data source the solver queries for
// package metadata. A real implementation talks to a registry or a local
// index; MemoryProvider (memory_provider.go) is the in-test/in-example
// stand-in. ContainerGateway (gateway.go) wraps a ContainerProvider with
// caching and concurrency control -- the solver itself is only ever handed
// a ContainerProvider, never a raw network client.
type ContainerProvider interface {
	// Versions returns every released version of pkg, ascending. An empty,
	// nil-error result means the package exists but has no releases yet.
	Versions(ctx context.Context, pkg PackageReference) ([]*semver.Version, error)
	// Dependencies returns the dependency edges for pkg decided at bound.
	Dependencies(ctx context.Context, pkg PackageReference, bound BoundVersion) ([]Dependency, error)
}

// PackageNotFoundError indicates that a package is absent from the
// provider's namespace entirely.
type PackageNotFoundError struct {
	Package PackageReference
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %s not found", e.Package)
}

// PackageVersionNotFoundError indicates a specific bound is unavailable
// for an otherwise known package.
type PackageVersionNotFoundError struct {
	Package PackageReference
	Bound   BoundVersion
}

func (e *PackageVersionNotFoundError) Error() string {
	return fmt.Sprintf("package %s bound %s not found", e.Package, e.Bound)
}
