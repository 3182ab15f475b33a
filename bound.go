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

// BoundVersionKind tags the shape a BoundVersion holds.
type BoundVersionKind int

const (
	// BoundVersionVersion pins an exact released version.
	BoundVersionVersion BoundVersionKind = iota
	// BoundVersionRevision pins a named commit or branch.
	BoundVersionRevision
	// BoundVersionUnversioned pins a local working-copy binding.
	BoundVersionUnversioned
	// BoundVersionExcluded is never produced by the solver; encountering
	// one anywhere outside this file is a fatal internal error.
	BoundVersionExcluded
)

// BoundVersion is the concrete outcome of a decision: a version, a
// revision, an unversioned local binding, or (never legitimately) excluded.
type BoundVersion struct {
	Kind     BoundVersionKind
	Version  *semver.Version
	Revision string
}

// VersionBound builds a BoundVersion::version(v).
func VersionBound(v *semver.Version) BoundVersion {
	return BoundVersion{Kind: BoundVersionVersion, Version: v}
}

// RevisionBound builds a BoundVersion::revision(r).
func RevisionBound(r string) BoundVersion {
	return BoundVersion{Kind: BoundVersionRevision, Revision: r}
}

// UnversionedBound builds a BoundVersion::unversioned.
func UnversionedBound() BoundVersion {
	return BoundVersion{Kind: BoundVersionUnversioned}
}

// String renders the bound for diagnostics and trace records.
func (b BoundVersion) String() string {
	switch b.Kind {
	case BoundVersionVersion:
		return b.Version.String()
	case BoundVersionRevision:
		return b.Revision
	case BoundVersionUnversioned:
		return "unversioned"
	default:
		return "<excluded>"
	}
}

// requirementFor maps a decided bound to the self-term requirement used
// when generating dependency incompatibilities (spec.md §4.6):
//   - version(v)      -> range(v..<nextMajor(v))
//   - revision(r)      -> revision(r)
//   - unversioned      -> unversioned
//   - excluded         -> fatal
func (b BoundVersion) requirementFor() Requirement {
	switch b.Kind {
	case BoundVersionVersion:
		return RangeRequirement(b.Version, true, nextMajorVersion(b.Version), false)
	case BoundVersionRevision:
		return RevisionRequirement(b.Revision)
	case BoundVersionUnversioned:
		return UnversionedRequirement()
	default:
		panic(&InternalError{Message: fmt.Sprintf("BoundVersion.requirementFor: excluded bound for %v", b)})
	}
}

// exactRequirement maps a decided bound to the term asserting the package
// is exactly pinned to it -- used for the decision assignment's own term,
// distinct from requirementFor which widens a version bound for the
// dependant incompatibilities it produces.
func (b BoundVersion) exactRequirement() Requirement {
	switch b.Kind {
	case BoundVersionVersion:
		return ExactRequirement(b.Version)
	case BoundVersionRevision:
		return RevisionRequirement(b.Revision)
	case BoundVersionUnversioned:
		return UnversionedRequirement()
	default:
		panic(&InternalError{Message: fmt.Sprintf("BoundVersion.exactRequirement: excluded bound for %v", b)})
	}
}
