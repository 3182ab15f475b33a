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

// assignmentKind distinguishes between decision and derivation assignments.
// Decision assignments are explicit choices made by the solver (version
// selections). Derivation assignments are constraints derived from
// incompatibilities via unit propagation.
type assignmentKind int

const (
	assignmentDecision   assignmentKind = iota // explicit version selection
	assignmentDerivation                       // constraint derived from propagation
)

// assignment is a single entry in the partial solution's decision log:
// either an explicit decision or a derived term, tagged with the
// decision level it belongs to and the index it occupies in the log (used
// for satisfier search ordering).
type assignment struct {
	pkg           PackageReference
	term          Term
	kind          assignmentKind
	bound         BoundVersion     // set for decisions
	cause         *Incompatibility // incompatibility that produced this derivation
	decisionLevel int
	index         int
}

// isDecision reports whether this assignment is an explicit version
// selection rather than a derived constraint.
func (a *assignment) isDecision() bool {
	return a.kind == assignmentDecision
}
