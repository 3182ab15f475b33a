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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionSetIntersection(t *testing.T) {
	v1, v2, v3 := mustVersion(t, "1.0.0"), mustVersion(t, "2.0.0"), mustVersion(t, "3.0.0")

	lo := RangeVersionSet(v1, true, v3, false)
	hi := RangeVersionSet(v2, true, nil, false)

	inter := lo.Intersection(hi)
	require.True(t, inter.Contains(v2))
	require.False(t, inter.Contains(v1))
	require.False(t, inter.Contains(v3))
}

func TestVersionSetIntersectionWithEmptyOrAny(t *testing.T) {
	v1 := mustVersion(t, "1.0.0")
	rng := ExactVersionSet(v1)

	require.True(t, rng.Intersection(EmptyVersionSet()).IsEmpty())
	require.True(t, rng.Intersection(AnyVersionSet()).Equal(rng))
}

func TestVersionSetIntersectionWithInverseLowerRemainderOnly(t *testing.T) {
	v1, v2, v3, v4 := mustVersion(t, "1.0.0"), mustVersion(t, "2.0.0"), mustVersion(t, "3.0.0"), mustVersion(t, "4.0.0")

	outer := RangeVersionSet(v1, true, v4, true)
	inner := RangeVersionSet(v2, true, v3, true)

	// inner sits strictly inside outer, splitting the complement into a
	// lower [1.0.0, 2.0.0) and an upper (3.0.0, 4.0.0] remainder. Per the
	// documented policy only the lower remainder is kept.
	remainder := outer.IntersectionWithInverse(inner)
	require.True(t, remainder.Contains(v1))
	require.False(t, remainder.Contains(v2))
	require.False(t, remainder.Contains(v4), "upper remainder is intentionally dropped")
}

func TestVersionSetConvexHull(t *testing.T) {
	v1, v2, v3, v4 := mustVersion(t, "1.0.0"), mustVersion(t, "2.0.0"), mustVersion(t, "3.0.0"), mustVersion(t, "4.0.0")

	left := RangeVersionSet(v1, true, v2, true)
	right := RangeVersionSet(v3, true, v4, true)

	hull := left.ConvexHull(right)
	require.True(t, hull.Contains(v1))
	require.True(t, hull.Contains(v2))
	require.True(t, hull.Contains(v3))
	require.True(t, hull.Contains(v4))
}

func TestVersionSetCaretString(t *testing.T) {
	v1 := mustVersion(t, "1.0.0")
	set := RangeVersionSet(v1, true, nextMajorVersion(v1), false)
	require.Equal(t, "^1.0.0", set.String())
}

func TestRequirementContainsBoundAsymmetry(t *testing.T) {
	v1 := mustVersion(t, "1.0.0")
	set := ExactRequirement(v1)
	revision := RevisionRequirement("main")
	unversioned := UnversionedRequirement()

	require.True(t, set.ContainsBound(VersionBound(v1)))
	require.False(t, set.ContainsBound(RevisionBound("main")))
	require.False(t, set.ContainsBound(UnversionedBound()))

	require.True(t, revision.ContainsBound(RevisionBound("main")))
	require.False(t, revision.ContainsBound(VersionBound(v1)))

	require.True(t, unversioned.ContainsBound(UnversionedBound()))
	require.False(t, unversioned.ContainsBound(VersionBound(v1)))
}

func TestRequirementRelationCrossKindAlwaysDisjoint(t *testing.T) {
	v1 := mustVersion(t, "1.0.0")
	set := ExactRequirement(v1)
	revision := RevisionRequirement("main")

	require.Equal(t, RelationDisjoint, set.Relation(revision))
	require.Equal(t, RelationDisjoint, revision.Relation(set))
}

func TestRequirementUnversionedAlwaysSubsetOfItself(t *testing.T) {
	a := UnversionedRequirement()
	b := UnversionedRequirement()
	require.Equal(t, RelationSubset, a.Relation(b))
}

func TestTermIntersectPositivePositive(t *testing.T) {
	pkg := pkgRef("A")
	v1, v2, v3 := mustVersion(t, "1.0.0"), mustVersion(t, "2.0.0"), mustVersion(t, "3.0.0")

	t1 := PositiveTerm(pkg, RangeRequirement(v1, true, v3, false))
	t2 := PositiveTerm(pkg, RangeRequirement(v2, true, nil, false))

	result := t1.Intersect(t2)
	require.True(t, result.Positive)
	require.False(t, result.Req.ContainsBound(VersionBound(v1)))
	require.True(t, result.Req.ContainsBound(VersionBound(v2)))
}

func TestTermIntersectPositiveNegative(t *testing.T) {
	pkg := pkgRef("A")
	v1, v2 := mustVersion(t, "1.0.0"), mustVersion(t, "2.0.0")

	positive := PositiveTerm(pkg, RangeRequirement(v1, true, nil, false))
	negative := NegativeTerm(pkg, ExactRequirement(v2))

	result := positive.Intersect(negative)
	require.True(t, result.Positive)
	require.True(t, result.Req.ContainsBound(VersionBound(v1)))
	require.False(t, result.Req.ContainsBound(VersionBound(v2)))
}

func TestTermRelationSubsetAndDisjoint(t *testing.T) {
	pkg := pkgRef("A")
	v1 := mustVersion(t, "1.0.0")

	broad := PositiveTerm(pkg, RangeRequirement(v1, true, nil, false))
	narrow := PositiveTerm(pkg, ExactRequirement(v1))

	require.Equal(t, RelationSubset, narrow.Relation(broad))
	require.Equal(t, RelationOverlapping, broad.Relation(narrow))
	require.Equal(t, RelationDisjoint, NegativeTerm(pkg, ExactRequirement(v1)).Relation(narrow))
}

func TestTermRelationPositiveSubsetOfNegative(t *testing.T) {
	pkg := pkgRef("Q")
	v1, v5, v6 := mustVersion(t, "1.0.0"), mustVersion(t, "5.0.0"), mustVersion(t, "6.0.0")

	// Q decided to exactly 1.0.0 is already disjoint from the excluded
	// range [5.0.0, 6.0.0), so the positive term is a subset of (implies)
	// the negative one -- it is already satisfied, not still pending.
	decided := PositiveTerm(pkg, ExactRequirement(v1))
	excluded := NegativeTerm(pkg, RangeRequirement(v5, true, v6, false))

	require.Equal(t, RelationSubset, decided.Relation(excluded))
}

func TestTermInverse(t *testing.T) {
	pkg := pkgRef("A")
	v1 := mustVersion(t, "1.0.0")
	term := PositiveTerm(pkg, ExactRequirement(v1))

	inv := term.Inverse()
	require.False(t, inv.Positive)
	require.Equal(t, term.Package, inv.Package)
	require.True(t, inv.Inverse().Positive)
}

func TestTermSatisfiedBy(t *testing.T) {
	pkg := pkgRef("A")
	v1 := mustVersion(t, "1.0.0")
	term := PositiveTerm(pkg, ExactRequirement(v1))

	bound := VersionBound(v1)
	require.True(t, term.SatisfiedBy(&bound))
	require.False(t, term.SatisfiedBy(nil))
	require.True(t, term.Inverse().SatisfiedBy(nil))
}
