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

import "github.com/sirupsen/logrus"

// solverState holds all mutable state during CDCL-based dependency
// resolution: the partial solution, the incompatibility index, and the
// unit propagation queue.
type solverState struct {
	gateway *ContainerGateway
	options SolverOptions
	partial *partialSolution

	incompatibilities map[PackageReference][]*Incompatibility
	learned           []*Incompatibility

	queue  []PackageReference
	queued map[PackageReference]bool
}

func newSolverState(gateway *ContainerGateway, options SolverOptions, root PackageReference) *solverState {
	return &solverState{
		gateway:           gateway,
		options:           options,
		partial:           newPartialSolution(root),
		incompatibilities: make(map[PackageReference][]*Incompatibility),
	}
}

func (st *solverState) enqueue(pkg PackageReference) {
	if st.queued == nil {
		st.queued = make(map[PackageReference]bool)
	}
	if st.queued[pkg] {
		return
	}
	st.queue = append(st.queue, pkg)
	st.queued[pkg] = true
}

func (st *solverState) dequeue() (PackageReference, bool) {
	if len(st.queue) == 0 {
		return PackageReference{}, false
	}
	pkg := st.queue[0]
	st.queue = st.queue[1:]
	delete(st.queued, pkg)
	return pkg, true
}

// addIncompatibility registers inc for every package it mentions, enqueues
// those packages so the next propagate evaluates it, and records it as
// learned when tracking is enabled.
func (st *solverState) addIncompatibility(inc *Incompatibility) {
	for _, term := range inc.Terms {
		st.incompatibilities[term.Package] = append(st.incompatibilities[term.Package], inc)
		st.enqueue(term.Package)
	}
	if st.options.TrackIncompatibilities {
		st.learned = append(st.learned, inc)
	}
}

func (st *solverState) debug(msg string, fields logrus.Fields) {
	if st.options.Logger == nil {
		return
	}
	st.options.Logger.WithFields(fields).Debug(msg)
}

func (st *solverState) traceAssignment(event string, a *assignment) {
	if a == nil {
		return
	}
	if st.options.Logger != nil {
		st.options.Logger.WithFields(logrus.Fields{
			"event":   event,
			"package": a.pkg.String(),
			"term":    a.term.String(),
			"level":   a.decisionLevel,
		}).Debug("assignment")
	}
	if st.options.Trace != nil {
		st.options.Trace.Trace(TraceEvent{Kind: TraceGeneral, Package: a.pkg, Message: event + ": " + a.term.String()})
	}
}

// incompatibilityRelation describes how an incompatibility currently
// relates to the partial solution.
type incompatibilityRelation int

const (
	relationSatisfied       incompatibilityRelation = iota // every term holds -- a conflict
	relationAlmostSatisfied                                // exactly one term undetermined -- unit propagation fires
	relationContradicted                                   // some term can never hold -- incompatibility is moot
	relationInconclusive                                   // more than one term undetermined -- wait
)

// evaluateIncompatibility classifies inc against the current partial
// solution, returning the single undetermined term when the result is
// relationAlmostSatisfied.
func (st *solverState) evaluateIncompatibility(inc *Incompatibility) (incompatibilityRelation, *Term) {
	var unsatisfied *Term
	for i := range inc.Terms {
		term := inc.Terms[i]
		switch st.partial.Relation(term) {
		case RelationDisjoint:
			return relationContradicted, nil
		case RelationSubset:
			continue
		default:
			if unsatisfied != nil {
				return relationInconclusive, nil
			}
			t := term
			unsatisfied = &t
		}
	}
	if unsatisfied == nil {
		return relationSatisfied, nil
	}
	return relationAlmostSatisfied, unsatisfied
}

// propagate runs unit propagation starting from start (if non-zero),
// draining the queue until either a conflict is found or the queue empties.
func (st *solverState) propagate(start PackageReference) *Incompatibility {
	if start != (PackageReference{}) {
		st.enqueue(start)
	}

	for {
		pkg, ok := st.dequeue()
		if !ok {
			return nil
		}

		for _, inc := range st.incompatibilities[pkg] {
			rel, unsatisfied := st.evaluateIncompatibility(inc)
			switch rel {
			case relationSatisfied:
				st.debug("conflict detected during propagation", logrus.Fields{"package": pkg.String(), "incompatibility": inc.String()})
				return inc
			case relationAlmostSatisfied:
				derived := unsatisfied.Inverse()
				a := st.partial.Derive(derived, inc)
				st.traceAssignment("derive", a)
				st.enqueue(a.pkg)
			}
		}
	}
}

// resolveIncompatibilities merges conflict and cause, dropping pivot's own
// term from each side -- NewConflictIncompatibility folds any remaining
// same-package terms together via Term.Intersect.
func resolveIncompatibilities(conflict, cause *Incompatibility, pivot PackageReference) *Incompatibility {
	terms := make([]Term, 0, len(conflict.Terms)+len(cause.Terms))
	for _, t := range conflict.Terms {
		if t.Package != pivot {
			terms = append(terms, t)
		}
	}
	for _, t := range cause.Terms {
		if t.Package != pivot {
			terms = append(terms, t)
		}
	}
	return NewConflictIncompatibility(terms, conflict, cause)
}

// resolveConflict performs CDCL conflict analysis and backjumping
// (spec.md §4.5). It iteratively merges conflict with the cause of its
// most recent satisfier until either the conflict is unsatisfiable at the
// root (no solution exists) or a decision-level satisfier is found to
// backjump to.
func (st *solverState) resolveConflict(conflict *Incompatibility) (pivot PackageReference, learned *Incompatibility, err error) {
	for {
		satisfier, prevLevel := st.partial.Satisfier(conflict)
		if satisfier == nil {
			return PackageReference{}, nil, NewUnresolvableError(conflict)
		}

		st.debug("conflict analysis iteration", logrus.Fields{
			"conflict":       conflict.String(),
			"satisfier_pkg":  satisfier.pkg.String(),
			"satisfier_lvl":  satisfier.decisionLevel,
			"previous_level": prevLevel,
		})
		if st.options.Trace != nil {
			st.options.Trace.Trace(TraceEvent{Kind: TraceConflictResolution, Conflict: conflict, Level: prevLevel})
		}

		if satisfier.decisionLevel == 0 && satisfier.isDecision() {
			return PackageReference{}, nil, NewUnresolvableError(conflict)
		}

		if satisfier.isDecision() && prevLevel < satisfier.decisionLevel {
			st.partial.Backtrack(prevLevel)
			st.addIncompatibility(conflict)
			return satisfier.pkg, conflict, nil
		}

		if satisfier.cause == nil {
			panic(&InternalError{Message: "derived assignment missing cause during conflict resolution"})
		}
		conflict = resolveIncompatibilities(conflict, satisfier.cause, satisfier.pkg)
	}
}

// registerDependencies adds one dependency incompatibility per edge out of
// pkg@bound (each enqueues the packages it mentions), then enqueues pkg so
// propagate picks them up on its next drain.
func (st *solverState) registerDependencies(pkg PackageReference, bound BoundVersion, deps []Dependency) {
	for _, dep := range deps {
		term := PositiveTerm(dep.Package, dep.Req)
		inc := NewDependencyIncompatibility(pkg, bound, term)
		st.addIncompatibility(inc)
	}
	st.enqueue(pkg)
}

// noVersionsIncompatibility builds the incompatibility recording that pkg,
// under its current cumulative constraint, has no satisfying bound
// available -- optionally folded against the cause of the most recent
// assignment for pkg, so the derivation graph stays connected for
// reporting.
func (st *solverState) noVersionsIncompatibility(pkg PackageReference) *Incompatibility {
	cumulative := st.partial.termFor(pkg)
	inc := NewNoVersionsIncompatibility(cumulative)
	if stack := st.partial.perPackage[pkg]; len(stack) > 0 {
		if cause := stack[len(stack)-1].cause; cause != nil {
			inc = resolveIncompatibilities(inc, cause, pkg)
		}
	}
	return inc
}

// pickVersion selects the highest available version of pkg that still
// satisfies the partial solution's current knowledge, per the container
// gateway's cached catalogue.
func (st *solverState) pickVersion(c *Container) (BoundVersion, bool) {
	cumulative := st.partial.termFor(c.Package)
	for i := len(c.Versions) - 1; i >= 0; i-- {
		v := c.Versions[i]
		candidate := PositiveTerm(c.Package, ExactRequirement(v))
		if cumulative.Relation(candidate) != RelationDisjoint {
			return VersionBound(v), true
		}
	}
	return BoundVersion{}, false
}
