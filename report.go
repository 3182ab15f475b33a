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

// Reporter formats an incompatibility derivation tree into a human-readable
// error message.
type Reporter interface {
	Report(incomp *Incompatibility) string
}

// CountReferences walks the derivation DAG rooted at incomp (following
// Cause1/Cause2) and counts, for every node, how many times it is cited as
// a cause elsewhere in the graph. A node referenced more than once is worth
// giving its own numbered line in the rendered report instead of being
// inlined at every site it's used -- this is the first of the two passes
// DefaultReporter.Report makes over the graph.
func CountReferences(incomp *Incompatibility) map[*Incompatibility]int {
	counts := make(map[*Incompatibility]int)
	visited := make(map[*Incompatibility]bool)

	var visit func(*Incompatibility)
	visit = func(inc *Incompatibility) {
		if inc == nil || visited[inc] {
			return
		}
		visited[inc] = true
		if inc.Cause1 != nil {
			counts[inc.Cause1]++
			visit(inc.Cause1)
		}
		if inc.Cause2 != nil {
			counts[inc.Cause2]++
			visit(inc.Cause2)
		}
	}
	visit(incomp)
	return counts
}

// DefaultReporter renders a derivation tree as a numbered sequence of
// English sentences: a conflict node referenced from more than one place in
// the DAG is rendered once as a numbered line and cited by number
// everywhere else, rather than being re-expanded (spec.md §4.8).
type DefaultReporter struct{}

// Report implements Reporter.
func (r *DefaultReporter) Report(incomp *Incompatibility) string {
	if incomp == nil {
		return "no solution found"
	}

	counts := CountReferences(incomp)
	lineOf := make(map[*Incompatibility]int)
	var lines []string

	var describe func(*Incompatibility) string
	describe = func(inc *Incompatibility) string {
		if inc == nil {
			return "an unknown constraint"
		}
		if n, ok := lineOf[inc]; ok {
			return fmt.Sprintf("(%d)", n)
		}

		var text string
		switch inc.Kind {
		case KindRoot:
			text = "your root requirements"
		case KindNoVersions:
			text = fmt.Sprintf("no versions of %s match %s", inc.Terms[0].Package, inc.Terms[0].Req)
		case KindFromDependency:
			dep := dependencyTerm(inc)
			text = fmt.Sprintf("%s %s depends on %s", inc.Package, inc.Bound, dep)
		case KindConflict:
			text = r.describeConflict(inc, describe)
		default:
			text = inc.String()
		}

		if counts[inc] > 1 {
			lines = append(lines, text)
			lineOf[inc] = len(lines)
			return fmt.Sprintf("(%d)", len(lines))
		}
		return text
	}

	final := describe(incomp)
	if _, numbered := lineOf[incomp]; !numbered {
		lines = append(lines, final)
	}

	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *DefaultReporter) describeConflict(inc *Incompatibility, describe func(*Incompatibility) string) string {
	left := describe(inc.Cause1)
	right := describe(inc.Cause2)

	var conclusion string
	switch {
	case inc.IsFailure():
		conclusion = "version solving has failed"
	case len(inc.Terms) == 1:
		conclusion = fmt.Sprintf("%s is forbidden", inc.Terms[0])
	default:
		parts := make([]string, 0, len(inc.Terms))
		for _, t := range inc.Terms {
			parts = append(parts, t.String())
		}
		conclusion = fmt.Sprintf("these constraints conflict: %s", strings.Join(parts, " and "))
	}

	return fmt.Sprintf("because %s and %s, %s", left, right, conclusion)
}

func dependencyTerm(inc *Incompatibility) Term {
	for _, t := range inc.Terms {
		if t.Package != inc.Package {
			if !t.Positive {
				return t.Inverse()
			}
			return t
		}
	}
	return Term{}
}

// CollapsedReporter produces a flatter, non-numbered rendering -- useful
// for short derivation trees where the full numbered form is overkill.
type CollapsedReporter struct{}

// Report implements Reporter.
func (r *CollapsedReporter) Report(incomp *Incompatibility) string {
	if incomp == nil {
		return "no solution found"
	}
	var lines []string
	r.collect(incomp, &lines, make(map[*Incompatibility]bool))
	if len(lines) == 0 {
		return "version solving failed"
	}
	result := lines[0]
	for _, l := range lines[1:] {
		result += "\nand because " + l
	}
	return result
}

func (r *CollapsedReporter) collect(inc *Incompatibility, lines *[]string, visited map[*Incompatibility]bool) {
	if inc == nil || visited[inc] {
		return
	}
	visited[inc] = true

	switch inc.Kind {
	case KindNoVersions:
		if len(inc.Terms) > 0 {
			*lines = append(*lines, fmt.Sprintf("no versions of %s match %s", inc.Terms[0].Package, inc.Terms[0].Req))
		}
	case KindFromDependency:
		*lines = append(*lines, fmt.Sprintf("%s %s depends on %s", inc.Package, inc.Bound, dependencyTerm(inc)))
	case KindConflict:
		r.collect(inc.Cause1, lines, visited)
		r.collect(inc.Cause2, lines, visited)
		if inc.IsFailure() {
			*lines = append(*lines, "version solving has failed")
		} else if len(inc.Terms) == 1 {
			*lines = append(*lines, fmt.Sprintf("%s is forbidden", inc.Terms[0]))
		} else {
			parts := make([]string, 0, len(inc.Terms))
			for _, t := range inc.Terms {
				parts = append(parts, t.String())
			}
			*lines = append(*lines, fmt.Sprintf("these constraints conflict: %s", strings.Join(parts, " and ")))
		}
	default:
		*lines = append(*lines, inc.String())
	}
}
