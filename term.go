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

import "fmt"

// Term represents a dependency constraint, either positive or negative. A
// positive term ("lodash >=1.0.0") asserts that a package must satisfy the
// requirement. A negative term ("not lodash ==1.5.0") excludes bounds that
// satisfy it.
//
// Terms are the building blocks of incompatibilities and of the partial
// solution, combining a package reference with a requirement and polarity.
type Term struct {
	Package  PackageReference
	Req      Requirement
	Positive bool
}

// PositiveTerm builds a term asserting pkg must satisfy req.
func PositiveTerm(pkg PackageReference, req Requirement) Term {
	return Term{Package: pkg, Req: req, Positive: true}
}

// NegativeTerm builds a term excluding bounds of pkg that satisfy req.
func NegativeTerm(pkg PackageReference, req Requirement) Term {
	return Term{Package: pkg, Req: req, Positive: false}
}

// String returns a human-readable representation of the term.
func (t Term) String() string {
	req := t.Req.String()
	if t.Positive {
		return fmt.Sprintf("%s %s", t.Package, req)
	}
	return fmt.Sprintf("not %s %s", t.Package, req)
}

// Inverse returns the logical negation of the term: same package and
// requirement, opposite polarity.
func (t Term) Inverse() Term {
	return Term{Package: t.Package, Req: t.Req, Positive: !t.Positive}
}

// SatisfiedBy reports whether a decided bound satisfies the term. An
// undecided package (bound == nil) satisfies only a negative term.
func (t Term) SatisfiedBy(bound *BoundVersion) bool {
	if bound == nil {
		return !t.Positive
	}
	matches := t.Req.ContainsBound(*bound)
	if t.Positive {
		return matches
	}
	return !matches
}

// Relation classifies how t relates to other, which must refer to the same
// package. Per spec.md §4.2:
//
//	(+R1) ∩ (+R2) -> +(R1 ∩ R2)
//	(+R1) ∩ (-R2) -> +(R1 ∩ ¬R2)
//	(-R1) ∩ (+R2) -> +(R2 ∩ ¬R1)
//	(-R1) ∩ (-R2) -> -(R1 ⊔ R2)        (convex hull, see VersionSet docs)
//
// relation(t, other) is then derived from whether their intersection is
// empty (disjoint), equal to t's requirement space (subset), or neither
// (overlapping).
func (t Term) Relation(other Term) Relation {
	inter := t.Intersect(other)
	if inter.isNever() {
		return RelationDisjoint
	}
	if t.impliesRelationSubsetOf(other) {
		return RelationSubset
	}
	return RelationOverlapping
}

// Intersect computes the combined term for t and other over the same
// package, following the four-case table documented on Relation.
func (t Term) Intersect(other Term) Term {
	switch {
	case t.Positive && other.Positive:
		return Term{Package: t.Package, Req: t.Req.Intersect(other.Req), Positive: true}
	case t.Positive && !other.Positive:
		return Term{Package: t.Package, Req: t.Req.IntersectionWithInverse(other.Req), Positive: true}
	case !t.Positive && other.Positive:
		return Term{Package: t.Package, Req: other.Req.IntersectionWithInverse(t.Req), Positive: true}
	default:
		return Term{Package: t.Package, Req: t.Req.ConvexHull(other.Req), Positive: false}
	}
}

// Difference returns the term satisfied by bounds t admits but other does
// not: t ∩ ¬other.
func (t Term) Difference(other Term) Term {
	return t.Intersect(other.Inverse())
}

// isNever reports whether a positive term can never be satisfied (a
// negative term is "never" only in the degenerate Unversioned case, which
// cannot arise from well-formed input, so only the positive/empty case is
// checked).
func (t Term) isNever() bool {
	return t.Positive && t.Req.IsNone()
}

// impliesRelationSubsetOf reports whether every bound satisfying t also
// satisfies other -- used only internally by Relation, after the
// intersection-emptiness check has already ruled out disjoint terms.
func (t Term) impliesRelationSubsetOf(other Term) bool {
	if t.Positive && !other.Positive {
		// t ⊆ other iff ¬other ⊇ t, i.e. t's admitted range never touches
		// other's excluded range.
		return t.Req.Relation(other.Req) == RelationDisjoint
	}
	if t.Positive != other.Positive {
		return false
	}
	if t.Positive {
		return t.Req.Relation(other.Req) == RelationSubset || t.Req.Relation(other.Req) == RelationDisjoint && t.Req.IsNone()
	}
	// Two negative terms: t ⊆ other iff other's excluded space is a subset
	// of t's excluded space, i.e. other.Req ⊆ t.Req.
	return other.Req.Relation(t.Req) == RelationSubset
}
