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

// versionSetKind distinguishes the three shapes a VersionSet can take.
type versionSetKind int

const (
	vsKindAny versionSetKind = iota
	vsKindEmpty
	vsKindRange
)

// VersionSet is a half-open (or closed, at either end) interval of
// versions: any, empty, exact(v), or range(lo..<hi). A single bounded
// range is the only shape this type can hold -- it cannot represent a
// union of disjoint intervals. That is a deliberate simplification
// matching spec's note that VersionSet.IntersectionWithInverse on an
// overlapping range returns only the lower remainder: a true complement
// of a bounded range is two intervals, which this representation cannot
// hold, so the upper remainder is discarded by policy.
type VersionSet struct {
	kind   versionSetKind
	lo     *semver.Version // nil = unbounded below
	loIncl bool
	hi     *semver.Version // nil = unbounded above
	hiIncl bool
}

// AnyVersionSet returns the set containing every version.
func AnyVersionSet() VersionSet { return VersionSet{kind: vsKindAny} }

// EmptyVersionSet returns the set containing no version. It is the
// identity for union and the annihilator for intersection.
func EmptyVersionSet() VersionSet { return VersionSet{kind: vsKindEmpty} }

// ExactVersionSet returns the set containing only v, treated as the
// half-open range [v, v+ε) for containment purposes -- represented here
// as the closed point [v, v].
func ExactVersionSet(v *semver.Version) VersionSet {
	return VersionSet{kind: vsKindRange, lo: v, loIncl: true, hi: v, hiIncl: true}
}

// RangeVersionSet builds a bounded or half-unbounded range. A nil bound
// means unbounded on that side. A disordered range (lo > hi, or lo == hi
// with either side exclusive) collapses to EmptyVersionSet.
func RangeVersionSet(lo *semver.Version, loIncl bool, hi *semver.Version, hiIncl bool) VersionSet {
	if lo != nil && hi != nil {
		cmp := lo.Compare(hi)
		if cmp > 0 {
			return EmptyVersionSet()
		}
		if cmp == 0 && !(loIncl && hiIncl) {
			return EmptyVersionSet()
		}
	}
	if lo == nil && hi == nil && loIncl && hiIncl {
		return AnyVersionSet()
	}
	return VersionSet{kind: vsKindRange, lo: lo, loIncl: loIncl, hi: hi, hiIncl: hiIncl}
}

// IsEmpty reports whether the set contains no versions.
func (vs VersionSet) IsEmpty() bool { return vs.kind == vsKindEmpty }

// IsAny reports whether the set contains every version.
func (vs VersionSet) IsAny() bool { return vs.kind == vsKindAny }

// Contains reports whether v lies within the set.
func (vs VersionSet) Contains(v *semver.Version) bool {
	switch vs.kind {
	case vsKindAny:
		return true
	case vsKindEmpty:
		return false
	default:
		if vs.lo != nil {
			cmp := v.Compare(vs.lo)
			if cmp < 0 || (cmp == 0 && !vs.loIncl) {
				return false
			}
		}
		if vs.hi != nil {
			cmp := v.Compare(vs.hi)
			if cmp > 0 || (cmp == 0 && !vs.hiIncl) {
				return false
			}
		}
		return true
	}
}

// lowerCmp compares two lower bounds (nil meaning -∞). Inclusive beats
// exclusive at a tie, since an inclusive lower bound admits more values.
func lowerCmp(aLo *semver.Version, aIncl bool, bLo *semver.Version, bIncl bool) int {
	if aLo == nil && bLo == nil {
		return 0
	}
	if aLo == nil {
		return -1
	}
	if bLo == nil {
		return 1
	}
	if c := aLo.Compare(bLo); c != 0 {
		return c
	}
	if aIncl == bIncl {
		return 0
	}
	if aIncl {
		return -1
	}
	return 1
}

func upperCmp(aHi *semver.Version, aIncl bool, bHi *semver.Version, bIncl bool) int {
	if aHi == nil && bHi == nil {
		return 0
	}
	if aHi == nil {
		return 1
	}
	if bHi == nil {
		return -1
	}
	if c := aHi.Compare(bHi); c != 0 {
		return c
	}
	if aIncl == bIncl {
		return 0
	}
	if aIncl {
		return 1
	}
	return -1
}

// Intersection returns vs ∩ other, standard range intersection: max of the
// lowers, min of the uppers, collapsing to empty if disordered.
func (vs VersionSet) Intersection(other VersionSet) VersionSet {
	if vs.kind == vsKindEmpty || other.kind == vsKindEmpty {
		return EmptyVersionSet()
	}
	if vs.kind == vsKindAny {
		return other
	}
	if other.kind == vsKindAny {
		return vs
	}

	lo, loIncl := vs.lo, vs.loIncl
	if lowerCmp(other.lo, other.loIncl, lo, loIncl) > 0 {
		lo, loIncl = other.lo, other.loIncl
	}
	hi, hiIncl := vs.hi, vs.hiIncl
	if upperCmp(other.hi, other.hiIncl, hi, hiIncl) < 0 {
		hi, hiIncl = other.hi, other.hiIncl
	}
	return RangeVersionSet(lo, loIncl, hi, hiIncl)
}

// ConvexHull returns the smallest range covering both sets -- used for the
// negative/negative term-intersection case, which per spec takes the
// smallest covering range rather than a true union when both sides are
// ranges.
func (vs VersionSet) ConvexHull(other VersionSet) VersionSet {
	if vs.kind == vsKindAny || other.kind == vsKindAny {
		return AnyVersionSet()
	}
	if vs.kind == vsKindEmpty {
		return other
	}
	if other.kind == vsKindEmpty {
		return vs
	}

	lo, loIncl := vs.lo, vs.loIncl
	if lowerCmp(other.lo, other.loIncl, lo, loIncl) < 0 {
		lo, loIncl = other.lo, other.loIncl
	}
	hi, hiIncl := vs.hi, vs.hiIncl
	if upperCmp(other.hi, other.hiIncl, hi, hiIncl) > 0 {
		hi, hiIncl = other.hi, other.hiIncl
	}
	return RangeVersionSet(lo, loIncl, hi, hiIncl)
}

// IntersectionWithInverse computes vs ∩ ¬other as a single VersionSet.
// When other lies fully outside vs, or fully covers vs, the result is
// exact. When other sits strictly inside vs -- splitting it into a lower
// and an upper remainder -- only the lower remainder is returned. This
// asymmetry is a known, intentional limitation (see SPEC_FULL.md and the
// Open Questions in spec.md): it must be reproduced for deterministic
// output, not fixed.
func (vs VersionSet) IntersectionWithInverse(other VersionSet) VersionSet {
	if vs.kind == vsKindEmpty || other.kind == vsKindAny {
		return EmptyVersionSet()
	}
	if other.kind == vsKindEmpty {
		return vs
	}

	// An unbounded side of other leaves no remainder on that side.
	lower := EmptyVersionSet()
	if other.lo != nil {
		lower = RangeVersionSet(vs.lo, vs.loIncl, other.lo, !other.loIncl)
	}
	if !lower.IsEmpty() {
		return vs.Intersection(lower)
	}

	upper := EmptyVersionSet()
	if other.hi != nil {
		upper = RangeVersionSet(other.hi, !other.hiIncl, vs.hi, vs.hiIncl)
	}
	return vs.Intersection(upper)
}

// IsSubsetOf reports whether every version in vs is also in other.
func (vs VersionSet) IsSubsetOf(other VersionSet) bool {
	if vs.kind == vsKindEmpty {
		return true
	}
	if other.kind == vsKindAny {
		return true
	}
	if other.kind == vsKindEmpty {
		return vs.kind == vsKindEmpty
	}
	if vs.kind == vsKindAny {
		return false
	}
	return lowerCmp(vs.lo, vs.loIncl, other.lo, other.loIncl) >= 0 &&
		upperCmp(vs.hi, vs.hiIncl, other.hi, other.hiIncl) <= 0
}

// Equal reports structural equality of two version sets.
func (vs VersionSet) Equal(other VersionSet) bool {
	return vs.IsSubsetOf(other) && other.IsSubsetOf(vs)
}

// String renders the set, preferring caret notation when the upper bound
// is exactly the next major version of the lower bound.
func (vs VersionSet) String() string {
	switch vs.kind {
	case vsKindAny:
		return "any"
	case vsKindEmpty:
		return "no versions"
	default:
		if vs.lo != nil && vs.hi != nil && vs.lo.Equal(vs.hi) && vs.loIncl && vs.hiIncl {
			return vs.lo.String()
		}
		if vs.lo != nil && vs.hi != nil && vs.loIncl && !vs.hiIncl && vs.hi.Equal(nextMajorVersion(vs.lo)) {
			return fmt.Sprintf("^%s", vs.lo)
		}
		var lo, hi string
		if vs.lo == nil {
			lo = "*"
		} else if vs.loIncl {
			lo = fmt.Sprintf(">=%s", vs.lo)
		} else {
			lo = fmt.Sprintf(">%s", vs.lo)
		}
		if vs.hi == nil {
			hi = "*"
		} else if vs.hiIncl {
			hi = fmt.Sprintf("<=%s", vs.hi)
		} else {
			hi = fmt.Sprintf("<%s", vs.hi)
		}
		if lo == "*" {
			return hi
		}
		if hi == "*" {
			return lo
		}
		return fmt.Sprintf("%s, %s", lo, hi)
	}
}

// nextMajorVersion returns the smallest version strictly greater than v
// with an incremented major component and zeroed minor/patch, used for
// both caret-range display and the "latest version, unbounded upper"
// simplification in dependency-incompatibility generation (spec.md §4.6).
func nextMajorVersion(v *semver.Version) *semver.Version {
	next := v.IncMajor()
	return &next
}
