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
	"sort"

	"github.com/Masterminds/semver/v3"
)

// packageEntry holds one package's known releases and their dependency
// edges, keyed by version string.
type packageEntry struct {
	versions []*semver.Version
	deps     map[string][]Dependency
}

// MemoryProvider is an in-memory ContainerProvider, the fixture used by
// tests and examples in place of a real registry client -- the same role
// the teacher's InMemorySource played, rebuilt against PackageReference,
// BoundVersion and Dependency instead of Name/Version/Condition.
type MemoryProvider struct {
	packages map[string]*packageEntry
}

// NewMemoryProvider returns an empty provider ready for AddVersion calls.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{packages: make(map[string]*packageEntry)}
}

// AddVersion registers a release of pkg at version, depending on deps.
// Calling it multiple times for the same package accumulates releases;
// versions do not need to be added in order.
func (m *MemoryProvider) AddVersion(pkg PackageReference, version *semver.Version, deps ...Dependency) *MemoryProvider {
	entry, ok := m.packages[pkg.Identity]
	if !ok {
		entry = &packageEntry{deps: make(map[string][]Dependency)}
		m.packages[pkg.Identity] = entry
	}
	entry.versions = append(entry.versions, version)
	entry.deps[version.String()] = deps
	return m
}

// Versions implements ContainerProvider.
func (m *MemoryProvider) Versions(_ context.Context, pkg PackageReference) ([]*semver.Version, error) {
	entry, ok := m.packages[pkg.Identity]
	if !ok {
		return nil, &PackageNotFoundError{Package: pkg}
	}
	sorted := append([]*semver.Version(nil), entry.versions...)
	sort.Sort(semver.Collection(sorted))
	return sorted, nil
}

// Dependencies implements ContainerProvider.
func (m *MemoryProvider) Dependencies(_ context.Context, pkg PackageReference, bound BoundVersion) ([]Dependency, error) {
	entry, ok := m.packages[pkg.Identity]
	if !ok {
		return nil, &PackageNotFoundError{Package: pkg}
	}
	if bound.Kind != BoundVersionVersion {
		return nil, &PackageVersionNotFoundError{Package: pkg, Bound: bound}
	}
	deps, ok := entry.deps[bound.Version.String()]
	if !ok {
		return nil, &PackageVersionNotFoundError{Package: pkg, Bound: bound}
	}
	return deps, nil
}
