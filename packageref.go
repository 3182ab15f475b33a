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

// PackageReference is an opaque, equatable, hashable identifier for a
// package. It is a plain comparable struct rather than an interned handle
// so the solver core never has to reach across a package boundary to
// compare two references -- equality is just Go struct equality, which
// makes PackageReference safe to use directly as a map key.
type PackageReference struct {
	// Identity uniquely identifies the package within a single solve.
	Identity string
	// Display is an optional human-friendly name. When empty, Identity is
	// used for display purposes too.
	Display string
	// Local marks a package bound to a local working copy rather than a
	// fetchable container (see Requirement's Unversioned shape).
	Local bool
}

// NewPackageReference builds a reference from an identity string alone.
func NewPackageReference(identity string) PackageReference {
	return PackageReference{Identity: identity}
}

// String renders Display if set, falling back to Identity.
func (p PackageReference) String() string {
	if p.Display != "" {
		return p.Display
	}
	return p.Identity
}

// reservedRootIdentity names the synthetic root package the solver seeds at
// the start of every solve. It can never collide with a real package name
// passed in by a caller, since real identities come from the container
// provider's own namespace.
const reservedRootIdentity = "$$root"

// Constraint pairs a package reference with a requirement, the unit the
// external Solve API accepts for both pins and direct dependencies.
type Constraint struct {
	Package     PackageReference
	Requirement Requirement
}

// String is used by diagnostics and trace records.
func (c Constraint) String() string {
	return fmt.Sprintf("%s %s", c.Package, c.Requirement)
}
