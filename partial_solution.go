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

// partialSolution maintains the evolving solution during dependency
// resolution. It tracks assignments (decisions and derivations) organized
// by package and decision level, supporting efficient backtracking and
// cumulative-term queries.
//
// The partial solution grows as the solver:
//  1. Makes decisions (selects package bounds)
//  2. Propagates constraints (derives new terms via unit propagation)
//  3. Backtracks (removes assignments when conflicts occur)
type partialSolution struct {
	assignments []*assignment
	perPackage  map[PackageReference][]*assignment
	decisionLvl int
	nextIndex   int
	root        PackageReference
}

// newPartialSolution creates an empty partial solution for the given root.
func newPartialSolution(root PackageReference) *partialSolution {
	return &partialSolution{
		perPackage: make(map[PackageReference][]*assignment),
		root:       root,
	}
}

func (ps *partialSolution) append(a *assignment) {
	a.index = ps.nextIndex
	ps.assignments = append(ps.assignments, a)
	ps.perPackage[a.pkg] = append(ps.perPackage[a.pkg], a)
	ps.nextIndex++
}

// termFor folds every assignment term recorded for pkg into a single
// cumulative term via Term.Intersect, starting from the universal positive
// term. This cumulative term is what Relation and satisfier queries test
// against.
func (ps *partialSolution) termFor(pkg PackageReference) Term {
	stack := ps.perPackage[pkg]
	acc := PositiveTerm(pkg, AnyRequirement())
	for _, a := range stack {
		acc = acc.Intersect(a.term)
	}
	return acc
}

// Relation reports how the partial solution's current knowledge about
// term.Package relates to term: disjoint (term cannot hold), subset (term
// is already guaranteed), or overlapping (undetermined).
func (ps *partialSolution) Relation(term Term) Relation {
	if len(ps.perPackage[term.Package]) == 0 {
		return RelationOverlapping
	}
	return ps.termFor(term.Package).Relation(term)
}

// Decide records an explicit bound selection for pkg, incrementing the
// decision level.
func (ps *partialSolution) Decide(pkg PackageReference, bound BoundVersion) *assignment {
	ps.decisionLvl++
	a := &assignment{
		pkg:           pkg,
		term:          PositiveTerm(pkg, bound.exactRequirement()),
		kind:          assignmentDecision,
		bound:         bound,
		decisionLevel: ps.decisionLvl,
	}
	ps.append(a)
	return a
}

// seedRoot initializes the partial solution with the root package decided
// at decision level 0.
func (ps *partialSolution) seedRoot() *assignment {
	a := &assignment{
		pkg:           ps.root,
		term:          PositiveTerm(ps.root, UnversionedRequirement()),
		kind:          assignmentDecision,
		bound:         UnversionedBound(),
		decisionLevel: 0,
	}
	ps.append(a)
	return a
}

// Derive records a term implied by unit propagation, attributing it to the
// incompatibility that produced it.
func (ps *partialSolution) Derive(term Term, cause *Incompatibility) *assignment {
	a := &assignment{
		pkg:           term.Package,
		term:          term,
		kind:          assignmentDerivation,
		cause:         cause,
		decisionLevel: ps.decisionLvl,
	}
	ps.append(a)
	return a
}

// Backtrack removes every assignment made above the given decision level.
func (ps *partialSolution) Backtrack(level int) {
	if level < 0 {
		level = 0
	}
	for len(ps.assignments) > 0 {
		last := ps.assignments[len(ps.assignments)-1]
		if last.decisionLevel <= level {
			break
		}
		ps.assignments = ps.assignments[:len(ps.assignments)-1]
		stack := ps.perPackage[last.pkg]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			delete(ps.perPackage, last.pkg)
		} else {
			ps.perPackage[last.pkg] = stack
		}
	}
	ps.decisionLvl = level
}

// hasDecision reports whether pkg already has a decision assignment.
func (ps *partialSolution) hasDecision(pkg PackageReference) bool {
	for _, a := range ps.perPackage[pkg] {
		if a.kind == assignmentDecision {
			return true
		}
	}
	return false
}

// IsComplete reports whether every package referenced in the log (other
// than root) has a decision.
func (ps *partialSolution) IsComplete() bool {
	for pkg := range ps.perPackage {
		if pkg == ps.root {
			continue
		}
		if !ps.hasDecision(pkg) {
			return false
		}
	}
	return true
}

// NextUndecided returns, in first-seen order, the next package that has a
// term constraining it but no decision yet. The second return is false
// when every known package is decided.
func (ps *partialSolution) NextUndecided() (PackageReference, bool) {
	seen := make(map[PackageReference]bool)
	for _, a := range ps.assignments {
		pkg := a.pkg
		if pkg == ps.root || seen[pkg] {
			continue
		}
		seen[pkg] = true
		if !ps.hasDecision(pkg) {
			return pkg, true
		}
	}
	return PackageReference{}, false
}

// Satisfier finds, for each term of inc, the earliest assignment whose
// cumulative prefix already guarantees that term, then returns whichever
// of those assignments occurs latest overall (the "most recent
// satisfier"), along with the highest decision level among the other
// terms' satisfiers (the "previous satisfier level") -- the two values
// conflict resolution needs to decide where to backjump to (spec.md §4.5).
func (ps *partialSolution) Satisfier(inc *Incompatibility) (*assignment, int) {
	perTerm := make(map[PackageReference]*assignment, len(inc.Terms))
	for _, term := range inc.Terms {
		stack := ps.perPackage[term.Package]
		acc := PositiveTerm(term.Package, AnyRequirement())
		for _, a := range stack {
			acc = acc.Intersect(a.term)
			if acc.Relation(term) == RelationSubset {
				perTerm[term.Package] = a
				break
			}
		}
	}

	var satisfier *assignment
	maxIndex := -1
	for _, a := range perTerm {
		if a != nil && a.index > maxIndex {
			satisfier = a
			maxIndex = a.index
		}
	}

	prevLevel := 0
	for _, a := range perTerm {
		if a == satisfier || a == nil {
			continue
		}
		if a.decisionLevel > prevLevel {
			prevLevel = a.decisionLevel
		}
	}

	return satisfier, prevLevel
}

// BuildResult constructs the resolved package/bound list from decision
// assignments, in first-decided order.
func (ps *partialSolution) BuildResult() []ResolvedPackage {
	result := make([]ResolvedPackage, 0)
	for _, a := range ps.assignments {
		if a.kind != assignmentDecision || a.pkg == ps.root {
			continue
		}
		result = append(result, ResolvedPackage{Package: a.pkg, Bound: a.bound})
	}
	return result
}

// snapshot renders the partial solution for debug logging.
func (ps *partialSolution) snapshot() string {
	var b strings.Builder
	fmt.Fprintf(&b, "decision_level=%d next_index=%d assignments=%d\n", ps.decisionLvl, ps.nextIndex, len(ps.assignments))
	for _, a := range ps.assignments {
		kind := "derive"
		if a.isDecision() {
			kind = "decide"
		}
		fmt.Fprintf(&b, "  [%d/%d] %s %s\n", a.index, a.decisionLevel, kind, a.term)
	}
	return b.String()
}

// pendingPackages lists packages with constraints but no decided version
// yet, used by diagnostics when analysing selection order.
func (ps *partialSolution) pendingPackages() []PackageReference {
	pending := make([]PackageReference, 0)
	seen := make(map[PackageReference]bool)
	for _, a := range ps.assignments {
		pkg := a.pkg
		if pkg == ps.root || seen[pkg] {
			continue
		}
		seen[pkg] = true
		if !ps.hasDecision(pkg) {
			pending = append(pending, pkg)
		}
	}
	return pending
}
