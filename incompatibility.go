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
	"strings"
)

// IncompatibilityKind records the origin of an incompatibility, used both
// for display (§4.8) and for error classification (§7).
type IncompatibilityKind int

const (
	// KindRoot is the synthetic "not $root" incompatibility seeded at the
	// start of every solve.
	KindRoot IncompatibilityKind = iota
	// KindNoVersions means the container provider returned no versions
	// satisfying a term.
	KindNoVersions
	// KindFromDependency encodes "pkg@bound depends on dependency".
	KindFromDependency
	// KindConflict is derived by resolveConflict from two prior causes.
	KindConflict
)

// Incompatibility is a set of terms that cannot all hold simultaneously.
// Per spec.md §3/§4.3, at most one term exists per (package, polarity)
// pair -- construction normalizes this by folding same-package terms
// together via Term.Intersect.
type Incompatibility struct {
	Terms   []Term
	Kind    IncompatibilityKind
	Cause1  *Incompatibility
	Cause2  *Incompatibility
	Package PackageReference // set for KindFromDependency
	Bound   BoundVersion     // set for KindFromDependency
}

// NewIncompatibility builds and normalizes an incompatibility from a raw
// term list, folding multiple terms over the same package into one via
// intersection -- this both satisfies the at-most-one-term-per-package
// invariant and keeps the underlying per-package requirement maximally
// tight.
func NewIncompatibility(terms []Term, kind IncompatibilityKind, cause1, cause2 *Incompatibility) *Incompatibility {
	byPkg := make(map[PackageReference]Term)
	order := make([]PackageReference, 0, len(terms))
	for _, t := range terms {
		if existing, ok := byPkg[t.Package]; ok {
			byPkg[t.Package] = existing.Intersect(t)
			continue
		}
		byPkg[t.Package] = t
		order = append(order, t.Package)
	}
	folded := make([]Term, 0, len(order))
	for _, pkg := range order {
		// Per spec.md §4.3 construction rule (c): if the synthesized root
		// package appears positively alongside any other term, the root
		// term is elided -- root is always satisfied once anything else
		// constrains the incompatibility, so keeping it around adds
		// nothing but noise to diagnostics.
		if pkg == rootPackage && byPkg[pkg].Positive && len(order) > 1 {
			continue
		}
		folded = append(folded, byPkg[pkg])
	}
	return &Incompatibility{Terms: folded, Kind: kind, Cause1: cause1, Cause2: cause2}
}

// NewRootIncompatibility builds the incompatibility asserting the root
// package must not be excluded: {not $root}.
func NewRootIncompatibility(root PackageReference) *Incompatibility {
	return NewIncompatibility([]Term{NegativeTerm(root, AnyRequirement())}, KindRoot, nil, nil)
}

// NewNoVersionsIncompatibility builds {not term} when a positive term has
// no satisfying versions available from the container provider.
func NewNoVersionsIncompatibility(term Term) *Incompatibility {
	return NewIncompatibility([]Term{term.Inverse()}, KindNoVersions, nil, nil)
}

// NewDependencyIncompatibility encodes "pkg@bound depends on dep". Per
// spec.md §4.6, the self-term widens a version bound to
// range(v..<nextMajor(v)) rather than pinning the exact decided version,
// so the derived incompatibility covers every version this dependency
// edge would apply to, not just the one currently decided.
func NewDependencyIncompatibility(pkg PackageReference, bound BoundVersion, dep Term) *Incompatibility {
	self := PositiveTerm(pkg, bound.requirementFor())
	inc := NewIncompatibility([]Term{self, dep.Inverse()}, KindFromDependency, nil, nil)
	inc.Package = pkg
	inc.Bound = bound
	return inc
}

// NewConflictIncompatibility builds a derived incompatibility produced
// while resolving a conflict between cause1 and cause2.
func NewConflictIncompatibility(terms []Term, cause1, cause2 *Incompatibility) *Incompatibility {
	return NewIncompatibility(terms, KindConflict, cause1, cause2)
}

// IsFailure reports whether this incompatibility is the empty set of
// terms, meaning every assignment satisfies it -- the solver has found a
// proof of unsatisfiability.
func (inc *Incompatibility) IsFailure() bool {
	return len(inc.Terms) == 0
}

// String renders the incompatibility for trace output and diagnostic
// fallback (the full prose rendering lives in report.go).
func (inc *Incompatibility) String() string {
	if inc.IsFailure() {
		return "version solving failed"
	}
	if len(inc.Terms) == 1 {
		return fmt.Sprintf("%s is forbidden", inc.Terms[0])
	}
	if inc.Kind == KindFromDependency && len(inc.Terms) == 2 {
		var dep Term
		for _, t := range inc.Terms {
			if t.Package != inc.Package {
				dep = t
				break
			}
		}
		if !dep.Positive {
			dep = dep.Inverse()
		}
		return fmt.Sprintf("%s %s depends on %s", inc.Package, inc.Bound, dep)
	}
	parts := make([]string, 0, len(inc.Terms))
	for _, t := range inc.Terms {
		parts = append(parts, t.String())
	}
	return fmt.Sprintf("%s are incompatible", strings.Join(parts, " and "))
}
