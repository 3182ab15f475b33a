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
//
// Originally from: github.com/tinyrange/tinyrange/experimental/pubgrub (v0.2.6)
// This is a derivative work based on the tinyrange pubgrub implementation.

// Package pubgrub implements the PubGrub version solving algorithm:
// conflict-driven clause learning over package requirements, with
// backjumping and a derivation-graph-based diagnostic report builder for
// unsatisfiable dependency sets.
//
// The solver never talks to a registry directly -- callers implement
// ContainerProvider (container.go) to describe how to list a package's
// versions and fetch the dependency edges of a decided bound, and hand it
// to NewSolver. MemoryProvider (memory_provider.go) is a ready-made
// in-memory implementation for tests and examples.
package pubgrub
