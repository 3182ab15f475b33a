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
	"iter"
)

// ResolvedPackage is a package paired with the bound version the solver
// decided for it -- the fundamental unit of a Result.
type ResolvedPackage struct {
	Package PackageReference
	Bound   BoundVersion
}

// String returns a human-readable representation of the pairing.
func (r ResolvedPackage) String() string {
	return fmt.Sprintf("%s %s", r.Package, r.Bound)
}

// Result is the complete set of resolved package bounds produced by a
// successful solve.
//
//	result, err := NewSolver(provider).Solve(ctx, constraints)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for pkg := range result.All() {
//	    fmt.Printf("%s: %s\n", pkg.Package, pkg.Bound)
//	}
type Result []ResolvedPackage

// Get retrieves the resolved bound for a given package, returning (bound,
// true) if found, or (zero value, false) otherwise.
func (r Result) Get(pkg PackageReference) (BoundVersion, bool) {
	for _, rp := range r {
		if rp.Package == pkg {
			return rp.Bound, true
		}
	}
	return BoundVersion{}, false
}

// All returns an iterator over every resolved package in the result.
func (r Result) All() iter.Seq[ResolvedPackage] {
	return func(yield func(ResolvedPackage) bool) {
		for _, rp := range r {
			if !yield(rp) {
				return
			}
		}
	}
}
