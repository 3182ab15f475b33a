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

	"github.com/Masterminds/semver/v3"
)

// RequirementKind tags the shape a Requirement takes. Requirements of
// different kinds never relate: VersionSet, Revision and Unversioned
// requirements are pairwise disjoint across kinds, so neither a Revision
// nor an Unversioned requirement dominates a version range. Two
// Unversioned requirements always match each other.
type RequirementKind int

const (
	// RequirementVersionSet constrains by a range of released versions.
	RequirementVersionSet RequirementKind = iota
	// RequirementRevision pins to an exact named commit or branch.
	RequirementRevision
	// RequirementUnversioned binds to a local working copy, independent of
	// any version or revision.
	RequirementUnversioned
)

// Requirement is the constraint shape a dependency edge or a decided
// assignment carries: a version range, a pinned revision, or an
// unversioned local binding.
type Requirement struct {
	Kind       RequirementKind
	Set        VersionSet
	RevisionID string
}

// RangeRequirement builds a VersionSet-kind requirement from explicit
// bounds.
func RangeRequirement(lo *semver.Version, loIncl bool, hi *semver.Version, hiIncl bool) Requirement {
	return Requirement{Kind: RequirementVersionSet, Set: RangeVersionSet(lo, loIncl, hi, hiIncl)}
}

// SetRequirement wraps an already-built VersionSet.
func SetRequirement(vs VersionSet) Requirement {
	return Requirement{Kind: RequirementVersionSet, Set: vs}
}

// ExactRequirement pins to a single released version.
func ExactRequirement(v *semver.Version) Requirement {
	return Requirement{Kind: RequirementVersionSet, Set: ExactVersionSet(v)}
}

// AnyRequirement admits every version (but not a revision or unversioned
// binding -- see Requirement.ContainsBound).
func AnyRequirement() Requirement {
	return Requirement{Kind: RequirementVersionSet, Set: AnyVersionSet()}
}

// NoneRequirement admits nothing.
func NoneRequirement() Requirement {
	return Requirement{Kind: RequirementVersionSet, Set: EmptyVersionSet()}
}

// RevisionRequirement pins to a named commit or branch.
func RevisionRequirement(id string) Requirement {
	return Requirement{Kind: RequirementRevision, RevisionID: id}
}

// UnversionedRequirement binds to a local working copy.
func UnversionedRequirement() Requirement {
	return Requirement{Kind: RequirementUnversioned}
}

// IsNone reports whether the requirement can never be satisfied.
func (r Requirement) IsNone() bool {
	return r.Kind == RequirementVersionSet && r.Set.IsEmpty()
}

// IsAny reports whether the requirement is the universal VersionSet --
// note this is distinct from Revision/Unversioned, which are never "any".
func (r Requirement) IsAny() bool {
	return r.Kind == RequirementVersionSet && r.Set.IsAny()
}

// ContainsBound reports whether a decided BoundVersion satisfies this
// requirement. The asymmetric rule from spec.md §4.1:
//   - VersionSet contains a Version bound iff the version lies in the set;
//     it never contains a Revision or Unversioned bound.
//   - Revision contains only the identical Revision bound.
//   - Unversioned contains only the Unversioned bound.
func (r Requirement) ContainsBound(b BoundVersion) bool {
	switch r.Kind {
	case RequirementVersionSet:
		return b.Kind == BoundVersionVersion && r.Set.Contains(b.Version)
	case RequirementRevision:
		return b.Kind == BoundVersionRevision && b.Revision == r.RevisionID
	case RequirementUnversioned:
		return b.Kind == BoundVersionUnversioned
	default:
		return false
	}
}

// Relation classifies how r relates to other: disjoint (no bound can
// satisfy both), subset (every bound satisfying r also satisfies other),
// or overlapping (neither disjoint nor subset).
type Relation int

const (
	RelationDisjoint Relation = iota
	RelationSubset
	RelationOverlapping
)

// Relation compares two requirements of possibly different kinds.
// Cross-kind requirements (VersionSet vs Revision, VersionSet vs
// Unversioned, distinct Revisions, distinct Unversioned bindings) are
// always disjoint: no single bound satisfies both shapes at once, except
// the degenerate case of two Unversioned requirements for the same
// package, which are always equal (and thus subsets of each other).
func (r Requirement) Relation(other Requirement) Relation {
	if r.Kind != other.Kind {
		return RelationDisjoint
	}
	switch r.Kind {
	case RequirementVersionSet:
		inter := r.Set.Intersection(other.Set)
		if inter.IsEmpty() {
			return RelationDisjoint
		}
		if r.Set.IsSubsetOf(other.Set) {
			return RelationSubset
		}
		return RelationOverlapping
	case RequirementRevision:
		if r.RevisionID == other.RevisionID {
			return RelationSubset
		}
		return RelationDisjoint
	case RequirementUnversioned:
		return RelationSubset
	default:
		return RelationDisjoint
	}
}

// Intersect returns the requirement admitting only bounds both r and other
// admit. Cross-kind pairs (VersionSet/Revision, VersionSet/Unversioned,
// distinct Revisions) can never share a bound, so they intersect to
// NoneRequirement; matching Revision or Unversioned pairs are idempotent.
func (r Requirement) Intersect(other Requirement) Requirement {
	if r.Kind != other.Kind {
		return NoneRequirement()
	}
	switch r.Kind {
	case RequirementVersionSet:
		return SetRequirement(r.Set.Intersection(other.Set))
	case RequirementRevision:
		if r.RevisionID == other.RevisionID {
			return r
		}
		return NoneRequirement()
	case RequirementUnversioned:
		return r
	default:
		return NoneRequirement()
	}
}

// IntersectionWithInverse returns the requirement admitting bounds r admits
// but other does not. For VersionSet pairs this defers to
// VersionSet.IntersectionWithInverse (carrying the same lower-remainder-only
// asymmetry). For the atomic Revision/Unversioned shapes -- which cannot be
// split -- the result is r unchanged unless other exactly equals r, in
// which case it is None.
func (r Requirement) IntersectionWithInverse(other Requirement) Requirement {
	if r.Kind == RequirementVersionSet && other.Kind == RequirementVersionSet {
		return SetRequirement(r.Set.IntersectionWithInverse(other.Set))
	}
	if r.Relation(other) == RelationSubset && other.Relation(r) == RelationSubset {
		return NoneRequirement()
	}
	return r
}

// ConvexHull returns the smallest requirement covering both r and other,
// used for the negative/negative term-intersection case (spec.md §4.2).
// Outside the VersionSet/VersionSet case this is only ever invoked on two
// equal atomic requirements, so it returns r unchanged.
func (r Requirement) ConvexHull(other Requirement) Requirement {
	if r.Kind == RequirementVersionSet && other.Kind == RequirementVersionSet {
		return SetRequirement(r.Set.ConvexHull(other.Set))
	}
	return r
}

// String renders the requirement for diagnostics.
func (r Requirement) String() string {
	switch r.Kind {
	case RequirementVersionSet:
		return r.Set.String()
	case RequirementRevision:
		return fmt.Sprintf("revision %s", r.RevisionID)
	case RequirementUnversioned:
		return "unversioned"
	default:
		return "<unknown requirement>"
	}
}
