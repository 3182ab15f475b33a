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
	"context"
	"fmt"
	"testing"

	"github.com/Masterminds/semver/v3"
)

func mustBenchVersion(b *testing.B, s string) *semver.Version {
	b.Helper()
	v, err := semver.NewVersion(s)
	if err != nil {
		b.Fatalf("invalid version %q: %v", s, err)
	}
	return v
}

// BenchmarkSimpleLinearChain exercises a linear dependency chain
// A -> B -> C -> D.
func BenchmarkSimpleLinearChain(b *testing.B) {
	v1 := mustBenchVersion(b, "1.0.0")
	a, bb, c, d := pkgRef("A"), pkgRef("B"), pkgRef("C"), pkgRef("D")

	provider := NewMemoryProvider().
		AddVersion(a, v1, Dependency{Package: bb, Req: ExactRequirement(v1)}).
		AddVersion(bb, v1, Dependency{Package: c, Req: ExactRequirement(v1)}).
		AddVersion(c, v1, Dependency{Package: d, Req: ExactRequirement(v1)}).
		AddVersion(d, v1)

	ctx := context.Background()
	constraints := []Constraint{{Package: a, Requirement: ExactRequirement(v1)}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider)
		if _, err := solver.Solve(ctx, constraints); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkDiamondDependency exercises the classic diamond: A depends on
// both B and C, both of which depend on D.
func BenchmarkDiamondDependency(b *testing.B) {
	v1 := mustBenchVersion(b, "1.0.0")
	a, bb, c, d := pkgRef("A"), pkgRef("B"), pkgRef("C"), pkgRef("D")

	provider := NewMemoryProvider().
		AddVersion(a, v1,
			Dependency{Package: bb, Req: ExactRequirement(v1)},
			Dependency{Package: c, Req: ExactRequirement(v1)},
		).
		AddVersion(bb, v1, Dependency{Package: d, Req: ExactRequirement(v1)}).
		AddVersion(c, v1, Dependency{Package: d, Req: ExactRequirement(v1)}).
		AddVersion(d, v1)

	ctx := context.Background()
	constraints := []Constraint{{Package: a, Requirement: ExactRequirement(v1)}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider)
		if _, err := solver.Solve(ctx, constraints); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkMultipleVersions exercises version selection across ten
// releases of a single package; the solver should pick the highest.
func BenchmarkMultipleVersions(b *testing.B) {
	a, bb := pkgRef("A"), pkgRef("B")
	v1 := mustBenchVersion(b, "1.0.0")

	provider := NewMemoryProvider().AddVersion(bb, v1)
	for i := 1; i <= 10; i++ {
		ver := mustBenchVersion(b, fmt.Sprintf("1.0.%d", i))
		if i > 1 {
			provider.AddVersion(a, ver, Dependency{Package: bb, Req: ExactRequirement(v1)})
		} else {
			provider.AddVersion(a, ver)
		}
	}

	ctx := context.Background()
	constraints := []Constraint{{Package: a, Requirement: RangeRequirement(v1, true, nil, false)}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider)
		if _, err := solver.Solve(ctx, constraints); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkComplexGraph exercises a ten-package web of cross-dependencies
// resembling a small application's dependency closure.
func BenchmarkComplexGraph(b *testing.B) {
	v1 := mustBenchVersion(b, "1.0.0")
	web, httpPkg, jsonPkg, tmpl := pkgRef("web"), pkgRef("http"), pkgRef("json"), pkgRef("template")
	netPkg, cryptoPkg, encoding := pkgRef("net"), pkgRef("crypto"), pkgRef("encoding")
	textPkg, htmlPkg, mathPkg := pkgRef("text"), pkgRef("html"), pkgRef("math")

	provider := NewMemoryProvider().
		AddVersion(web, v1,
			Dependency{Package: httpPkg, Req: ExactRequirement(v1)},
			Dependency{Package: jsonPkg, Req: ExactRequirement(v1)},
			Dependency{Package: tmpl, Req: ExactRequirement(v1)},
		).
		AddVersion(httpPkg, v1,
			Dependency{Package: netPkg, Req: ExactRequirement(v1)},
			Dependency{Package: cryptoPkg, Req: ExactRequirement(v1)},
		).
		AddVersion(jsonPkg, v1, Dependency{Package: encoding, Req: ExactRequirement(v1)}).
		AddVersion(tmpl, v1,
			Dependency{Package: textPkg, Req: ExactRequirement(v1)},
			Dependency{Package: htmlPkg, Req: ExactRequirement(v1)},
		).
		AddVersion(netPkg, v1).
		AddVersion(cryptoPkg, v1, Dependency{Package: mathPkg, Req: ExactRequirement(v1)}).
		AddVersion(encoding, v1).
		AddVersion(textPkg, v1).
		AddVersion(htmlPkg, v1, Dependency{Package: textPkg, Req: ExactRequirement(v1)}).
		AddVersion(mathPkg, v1)

	ctx := context.Background()
	constraints := []Constraint{{Package: web, Requirement: ExactRequirement(v1)}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider)
		if _, err := solver.Solve(ctx, constraints); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkBacktracking resolves A, which wants B>=2.0. C, which wants
// B<2.0, is in the provider but no constraint requires it, so the solver
// settles on B 2.1.0 without undoing a decision.
func BenchmarkBacktracking(b *testing.B) {
	v100 := mustBenchVersion(b, "1.0.0")
	v200 := mustBenchVersion(b, "2.0.0")
	v210 := mustBenchVersion(b, "2.1.0")

	a, bb, c, d := pkgRef("A"), pkgRef("B"), pkgRef("C"), pkgRef("D")

	provider := NewMemoryProvider().
		AddVersion(a, v100, Dependency{Package: bb, Req: RangeRequirement(v200, true, nil, false)}).
		AddVersion(c, v100, Dependency{Package: bb, Req: RangeRequirement(nil, false, v200, false)}).
		AddVersion(bb, v100).
		AddVersion(bb, v200).
		AddVersion(bb, v210).
		AddVersion(d, v100)

	ctx := context.Background()
	constraints := []Constraint{
		{Package: a, Requirement: ExactRequirement(v100)},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider)
		if _, err := solver.Solve(ctx, constraints); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkConflictDetection measures how quickly the solver proves a
// genuinely unsatisfiable graph has no solution.
func BenchmarkConflictDetection(b *testing.B) {
	v1, v2 := mustBenchVersion(b, "1.0.0"), mustBenchVersion(b, "2.0.0")
	a, bb, c := pkgRef("A"), pkgRef("B"), pkgRef("C")

	provider := NewMemoryProvider().
		AddVersion(a, v1, Dependency{Package: bb, Req: ExactRequirement(v1)}).
		AddVersion(bb, v1).
		AddVersion(bb, v2).
		AddVersion(c, v1, Dependency{Package: bb, Req: ExactRequirement(v2)})

	ctx := context.Background()
	constraints := []Constraint{
		{Package: a, Requirement: ExactRequirement(v1)},
		{Package: c, Requirement: ExactRequirement(v1)},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider)
		if _, err := solver.Solve(ctx, constraints); err == nil {
			b.Fatal("expected conflict but got a solution")
		}
	}
}

// BenchmarkWithTracking measures the overhead WithIncompatibilityTracking
// adds over the same conflict as BenchmarkConflictDetection.
func BenchmarkWithTracking(b *testing.B) {
	v1, v2 := mustBenchVersion(b, "1.0.0"), mustBenchVersion(b, "2.0.0")
	a, bb, c := pkgRef("A"), pkgRef("B"), pkgRef("C")

	provider := NewMemoryProvider().
		AddVersion(a, v1, Dependency{Package: bb, Req: ExactRequirement(v1)}).
		AddVersion(bb, v1).
		AddVersion(c, v1, Dependency{Package: bb, Req: ExactRequirement(v2)})

	ctx := context.Background()
	constraints := []Constraint{
		{Package: a, Requirement: ExactRequirement(v1)},
		{Package: c, Requirement: ExactRequirement(v1)},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider, WithIncompatibilityTracking(true))
		if _, err := solver.Solve(ctx, constraints); err == nil {
			b.Fatal("expected conflict")
		}
	}
}

// BenchmarkDeepDependencyChain exercises a twenty-package linear chain.
func BenchmarkDeepDependencyChain(b *testing.B) {
	const depth = 20
	v1 := mustBenchVersion(b, "1.0.0")
	provider := NewMemoryProvider()
	for i := 0; i < depth; i++ {
		pkg := pkgRef(fmt.Sprintf("pkg%d", i))
		if i < depth-1 {
			next := pkgRef(fmt.Sprintf("pkg%d", i+1))
			provider.AddVersion(pkg, v1, Dependency{Package: next, Req: ExactRequirement(v1)})
		} else {
			provider.AddVersion(pkg, v1)
		}
	}

	ctx := context.Background()
	constraints := []Constraint{{Package: pkgRef("pkg0"), Requirement: ExactRequirement(v1)}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider)
		if _, err := solver.Solve(ctx, constraints); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkWideGraph exercises a root with twenty direct dependencies and
// no further edges.
func BenchmarkWideGraph(b *testing.B) {
	const width = 20
	v1 := mustBenchVersion(b, "1.0.0")
	root := pkgRef("root")

	provider := NewMemoryProvider()
	deps := make([]Dependency, width)
	for i := 0; i < width; i++ {
		pkg := pkgRef(fmt.Sprintf("pkg%d", i))
		deps[i] = Dependency{Package: pkg, Req: ExactRequirement(v1)}
		provider.AddVersion(pkg, v1)
	}
	provider.AddVersion(root, v1, deps...)

	ctx := context.Background()
	constraints := []Constraint{{Package: root, Requirement: ExactRequirement(v1)}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver := NewSolver(provider)
		if _, err := solver.Solve(ctx, constraints); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkGatewayCacheReuse measures the benefit of reusing one Solver
// (and therefore one ContainerGateway cache) across several related
// solves, versus building a fresh provider-backed solver each time.
func BenchmarkGatewayCacheReuse(b *testing.B) {
	v1 := mustBenchVersion(b, "1.0.0")
	web, httpPkg, jsonPkg, netPkg, encoding := pkgRef("web"), pkgRef("http"), pkgRef("json"), pkgRef("net"), pkgRef("encoding")
	app1, app2, app3 := pkgRef("app1"), pkgRef("app2"), pkgRef("app3")

	provider := NewMemoryProvider().
		AddVersion(web, v1,
			Dependency{Package: httpPkg, Req: ExactRequirement(v1)},
			Dependency{Package: jsonPkg, Req: ExactRequirement(v1)},
		).
		AddVersion(httpPkg, v1, Dependency{Package: netPkg, Req: ExactRequirement(v1)}).
		AddVersion(jsonPkg, v1, Dependency{Package: encoding, Req: ExactRequirement(v1)}).
		AddVersion(netPkg, v1).
		AddVersion(encoding, v1).
		AddVersion(app1, v1, Dependency{Package: web, Req: ExactRequirement(v1)}).
		AddVersion(app2, v1, Dependency{Package: httpPkg, Req: ExactRequirement(v1)}).
		AddVersion(app3, v1, Dependency{Package: jsonPkg, Req: ExactRequirement(v1)})

	ctx := context.Background()

	b.Run("SharedSolver", func(b *testing.B) {
		solver := NewSolver(provider)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = solver.Solve(ctx, []Constraint{{Package: app1, Requirement: ExactRequirement(v1)}})
			_, _ = solver.Solve(ctx, []Constraint{{Package: app2, Requirement: ExactRequirement(v1)}})
			_, _ = solver.Solve(ctx, []Constraint{{Package: app3, Requirement: ExactRequirement(v1)}})
		}
	})

	b.Run("FreshSolverEachTime", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = NewSolver(provider).Solve(ctx, []Constraint{{Package: app1, Requirement: ExactRequirement(v1)}})
			_, _ = NewSolver(provider).Solve(ctx, []Constraint{{Package: app2, Requirement: ExactRequirement(v1)}})
			_, _ = NewSolver(provider).Solve(ctx, []Constraint{{Package: app3, Requirement: ExactRequirement(v1)}})
		}
	})
}
