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
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sdboyer/constext"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ContainerGateway serializes and caches fetches against a
// ContainerProvider, so that the solver's decision loop and any
// speculative Prefetch fan-out never issue two concurrent requests for the
// same package. It follows the same fetch-once, broadcast-on-completion
// shape as a SourceManager's singleSourceCache (golang-dep's
// vendor/github.com/sdboyer/gps/source_manager.go): a mutex-guarded map of
// completed Containers, a set of in-flight package names, and a condition
// variable that lets waiting goroutines block until the in-flight fetch
// they care about finishes, instead of polling.
type ContainerGateway struct {
	provider ContainerProvider
	logger   logrus.FieldLogger
	sink     TraceSink

	skipUpdate bool
	fetchSlop  time.Duration

	mu       sync.Mutex
	cond     *sync.Cond
	fetched  map[PackageReference]*Container
	fetchErr map[PackageReference]error
	inflight map[PackageReference]struct{}
	depsSeen map[depKey][]Dependency
}

// depKey identifies a single decided bound of a package, used to cache
// dependency lookups so re-deciding the same bound after a backtrack
// doesn't re-hit the provider.
type depKey struct {
	pkg   PackageReference
	bound string
}

// GatewayOption configures a ContainerGateway.
type GatewayOption func(*ContainerGateway)

// WithGatewayLogger attaches a structured logger to the gateway.
func WithGatewayLogger(logger logrus.FieldLogger) GatewayOption {
	return func(g *ContainerGateway) { g.logger = logger }
}

// WithGatewayTrace attaches a trace sink the gateway reports fetch events to.
func WithGatewayTrace(sink TraceSink) GatewayOption {
	return func(g *ContainerGateway) { g.sink = sink }
}

// WithSkipUpdate puts the gateway in incomplete/offline mode: a package not
// already cached is never fetched, and Get instead returns a
// MissingVersionsError (spec.md §6/§7).
func WithSkipUpdate(skip bool) GatewayOption {
	return func(g *ContainerGateway) { g.skipUpdate = skip }
}

// NewContainerGateway wraps provider with caching and fetch coalescing.
func NewContainerGateway(provider ContainerProvider, opts ...GatewayOption) *ContainerGateway {
	g := &ContainerGateway{
		provider: provider,
		fetched:  make(map[PackageReference]*Container),
		fetchErr: make(map[PackageReference]error),
		inflight: make(map[PackageReference]struct{}),
		depsSeen: make(map[depKey][]Dependency),
	}
	g.cond = sync.NewCond(&g.mu)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Get returns the Container for pkg, fetching it from the provider if it
// has not been seen before. Concurrent callers requesting the same pkg
// coalesce onto a single provider call.
func (g *ContainerGateway) Get(ctx context.Context, pkg PackageReference) (*Container, error) {
	g.mu.Lock()
	for {
		if c, ok := g.fetched[pkg]; ok {
			g.mu.Unlock()
			return c, nil
		}
		if err, ok := g.fetchErr[pkg]; ok {
			g.mu.Unlock()
			return nil, err
		}
		if _, busy := g.inflight[pkg]; !busy {
			if g.skipUpdate {
				g.mu.Unlock()
				return nil, &MissingVersionsError{Package: pkg}
			}
			g.inflight[pkg] = struct{}{}
			g.mu.Unlock()
			return g.fetch(ctx, pkg)
		}
		g.cond.Wait()
	}
}

// fetch performs the actual provider call for pkg and publishes the
// result, waking any goroutines blocked in Get/Prefetch on this package.
// Per spec.md §4.7's fetched: map<package, Result<Container, Error>>
// contract, a provider error is cached just like a success -- a package
// the provider can't serve stays failed, it doesn't get re-fetched on
// every subsequent Get.
func (g *ContainerGateway) fetch(ctx context.Context, pkg PackageReference) (*Container, error) {
	g.trace(pkg, "fetch-start")
	versions, err := g.provider.Versions(ctx, pkg)

	g.mu.Lock()
	delete(g.inflight, pkg)
	if err != nil {
		g.fetchErr[pkg] = err
		g.cond.Broadcast()
		g.mu.Unlock()
		g.trace(pkg, "fetch-error")
		return nil, err
	}
	c := &Container{Package: pkg, Versions: versions}
	g.fetched[pkg] = c
	g.cond.Broadcast()
	g.mu.Unlock()
	g.trace(pkg, "fetch-done")
	return c, nil
}

// Dependencies returns the dependency edges for pkg decided at bound,
// caching the result so repeated decisions of the same bound (e.g. after a
// backtrack re-selects it) don't repeat the provider call.
func (g *ContainerGateway) Dependencies(ctx context.Context, pkg PackageReference, bound BoundVersion) ([]Dependency, error) {
	key := depKey{pkg: pkg, bound: bound.String()}

	g.mu.Lock()
	if deps, ok := g.depsSeen[key]; ok {
		g.mu.Unlock()
		return deps, nil
	}
	g.mu.Unlock()

	deps, err := g.provider.Dependencies(ctx, pkg, bound)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.depsSeen[key] = deps
	g.mu.Unlock()
	return deps, nil
}

// Prefetch speculatively warms the cache for every package in pkgs,
// fanning the fetches out with an errgroup (one goroutine per package, no
// concurrency limit), and merging per-package failures into one
// *multierror.Error the caller may choose to ignore. A failed fetch is
// cached like any other, so a later Get returns the same error instead of
// fetching again. The internal fetch deadline is
// merged with the caller's context via constext.Merge, so either context
// expiring aborts the in-flight fetch.
func (g *ContainerGateway) Prefetch(ctx context.Context, pkgs []PackageReference) error {
	fetchCtx, cancel := context.WithTimeout(context.Background(), g.slop())
	defer cancel()

	merged, cancelMerge := constext.Merge(ctx, fetchCtx)
	defer cancelMerge()

	grp, gctx := errgroup.WithContext(merged)
	var mu sync.Mutex
	var errs *multierror.Error

	for _, pkg := range pkgs {
		pkg := pkg
		grp.Go(func() error {
			if _, err := g.Get(gctx, pkg); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = grp.Wait()
	if errs != nil {
		return errs.ErrorOrNil()
	}
	return nil
}

func (g *ContainerGateway) slop() time.Duration {
	if g.fetchSlop > 0 {
		return g.fetchSlop
	}
	return 30 * time.Second
}

func (g *ContainerGateway) trace(pkg PackageReference, step string) {
	if g.logger != nil {
		g.logger.WithFields(logrus.Fields{"package": pkg.String(), "step": step}).Debug("container gateway")
	}
	if g.sink != nil {
		g.sink.Trace(TraceEvent{Kind: TraceGeneral, Package: pkg, Message: step})
	}
}
