// Package scheduler executes a command graph against a workspace. Every
// (command, package) pair becomes an execution unit; units run concurrently,
// ordered by the command graph and, for package commands, by the package
// graph.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/otto/internal/workspace"
	"go.trai.ch/zerr"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithImmediateFailures makes the first unit failure cancel the whole run.
// By default independent units keep running and all failures are reported
// together.
func WithImmediateFailures() Option {
	return func(s *Scheduler) { s.immediateFailures = true }
}

// Scheduler runs command graphs. It is stateless across runs and safe for
// reuse.
type Scheduler struct {
	logger ports.Logger
	tracer ports.Tracer

	immediateFailures bool
}

// New creates a Scheduler.
func New(logger ports.Logger, tracer ports.Tracer, opts ...Option) *Scheduler {
	s := &Scheduler{logger: logger, tracer: tracer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run expands root into execution units and runs them to completion. It
// returns once every finite unit has completed, shutting down any
// run-forever units underneath; a run-forever root keeps the run going until
// ctx is cancelled. The result joins the failures of the run; dependents of
// a failed unit are not started and are not reported separately. Cancelling
// ctx is a clean shutdown, not an error.
func (s *Scheduler) Run(ctx context.Context, ws *workspace.Workspace, root workspace.Command) error {
	graph, err := workspace.BuildCommandGraph(root)
	if err != nil {
		return err
	}

	units, err := expand(ws, graph)
	if err != nil {
		return err
	}

	keys := make([]string, len(units))
	for i, u := range units {
		keys[i] = u.key
	}
	s.tracer.EmitPlan(ctx, keys)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Run-forever units keep the run alive only when the root itself is
	// run-forever. Under a finite root they are shut down once every other
	// unit has completed.
	rootForever := root.Runtime() == workspace.RunForever

	errs := make([]error, len(units))
	var wg, background sync.WaitGroup
	for i, u := range units {
		group := &wg
		if !rootForever && u.cmd.Runtime() == workspace.RunForever {
			group = &background
		}
		group.Add(1)
		go func() {
			defer group.Done()
			errs[i] = s.runUnit(runCtx, ws, u)
			if errs[i] != nil && s.immediateFailures {
				cancel()
			}
		}()
	}
	wg.Wait()
	cancel()
	background.Wait()

	// Stop stragglers: run-forever tools, and on abort everything else too.
	ws.Processes().KillAll()
	ws.Processes().AwaitAll()

	return errors.Join(errs...)
}

func (s *Scheduler) runUnit(ctx context.Context, ws *workspace.Workspace, u *unit) error {
	immediate := u.cmd.Runtime() == workspace.RunImmediately
	if !immediate {
		if err := u.await(ctx); err != nil {
			u.complete(err)
			if ctx.Err() != nil {
				return nil
			}
			// The root failure is reported by the unit that produced it.
			s.logger.Warn(fmt.Sprintf("not running %s: dependency failed", u.key))
			return nil
		}
	}
	if ctx.Err() != nil {
		u.complete(ctx.Err())
		return nil
	}
	if immediate {
		// Dependents proceed from spawn; the unit's own outcome still joins
		// the run result.
		u.complete(nil)
	}

	store := ws.Fingerprints()
	forever := u.cmd.Runtime() == workspace.RunForever

	files, fingerprinted, err := inputFiles(ws, u)
	if err != nil {
		u.complete(err)
		return err
	}
	cacheable := fingerprinted && store != nil && !forever

	if cacheable && store.Check(u.key, files) {
		s.logger.Info(fmt.Sprintf("skip %s (up to date)", u.key))
		u.complete(nil)
		return nil
	}

	s.logger.Info("run " + u.key)
	spanCtx, span := s.tracer.Start(ctx, u.key)
	defer span.End()
	if u.pkg != nil {
		span.SetAttribute("package", u.pkg.Name.String())
	}

	if forever {
		err = s.runForever(spanCtx, ws, u)
	} else {
		err = run(spanCtx, ws, u)
		if err == nil && cacheable {
			err = store.Record(u.key, files)
		}
		u.complete(err)
	}

	if err != nil {
		if ctx.Err() != nil {
			// Shutdown fallout, not a failure of the unit itself.
			return nil
		}
		span.RecordError(err)
		return zerr.With(err, "unit", u.key)
	}
	return nil
}

// runForever runs a unit that never completes on its own. Dependents are
// released when the unit signals readiness; a return before that point is
// treated as completion (with its error, if any).
func (s *Scheduler) runForever(ctx context.Context, ws *workspace.Workspace, u *unit) error {
	ready := make(chan struct{})
	var once sync.Once
	ctx = workspace.ContextWithReady(ctx, func() {
		once.Do(func() { close(ready) })
	})

	result := make(chan error, 1)
	go func() {
		result <- run(ctx, ws, u)
	}()

	select {
	case <-ready:
		u.complete(nil)
		return <-result
	case err := <-result:
		u.complete(err)
		return err
	}
}

func run(ctx context.Context, ws *workspace.Workspace, u *unit) error {
	switch cmd := u.cmd.(type) {
	case workspace.PackageCommand:
		return cmd.RunPkg(ctx, ws, u.pkg)
	case workspace.WorkspaceCommand:
		return cmd.RunWs(ctx, ws)
	default:
		return zerr.With(domain.ErrUnresolvedCommand, "key", u.key)
	}
}

func inputFiles(ws *workspace.Workspace, u *unit) ([]string, bool, error) {
	if u.pkg != nil {
		if cmd, ok := u.cmd.(workspace.PackageFingerprinted); ok {
			files, err := cmd.PackageInputFiles(ws, u.pkg)
			return files, true, err
		}
		return nil, false, nil
	}
	if cmd, ok := u.cmd.(workspace.Fingerprinted); ok {
		files, err := cmd.InputFiles(ws)
		return files, true, err
	}
	return nil, false, nil
}

// expand turns the command graph into execution units with their wait sets.
// Commands are visited dependencies-first, packages in display order, so the
// resulting unit list is deterministic.
func expand(ws *workspace.Workspace, graph *workspace.CommandGraph) ([]*unit, error) {
	wsUnits := make(map[string]*unit)
	pkgUnits := make(map[string]map[int]*unit)

	// depWaits collects the units a unit must wait for via the command
	// graph. A package-scoped unit waits for pkg-scoped dependency commands
	// on its own package only; a workspace-scoped unit waits for them on
	// every package.
	depWaits := func(cmd workspace.Command, pkg *domain.Package) []*unit {
		var waits []*unit
		for _, depKey := range graph.Deps(cmd.Name()) {
			if depUnit, ok := wsUnits[depKey]; ok {
				waits = append(waits, depUnit)
				continue
			}
			perPkg := pkgUnits[depKey]
			if pkg != nil {
				if depUnit, ok := perPkg[pkg.Index]; ok {
					waits = append(waits, depUnit)
				}
				continue
			}
			for depPkg := range ws.DisplayOrder() {
				waits = append(waits, perPkg[depPkg.Index])
			}
		}
		return waits
	}

	var units []*unit
	for cmd := range graph.Walk() {
		switch c := cmd.(type) {
		case workspace.PackageCommand:
			perPkg := make(map[int]*unit, ws.PkgGraph.Len())
			for pkg := range ws.DisplayOrder() {
				u := newUnit(workspace.PkgKey(c, pkg), c, pkg)
				u.waits = depWaits(c, pkg)
				// Same command on dependency packages runs first.
				for _, depPkg := range ws.PkgGraph.Dependencies(pkg) {
					u.waits = append(u.waits, perPkg[depPkg.Index])
				}
				perPkg[pkg.Index] = u
				units = append(units, u)
			}
			pkgUnits[c.Name()] = perPkg

		case workspace.WorkspaceCommand:
			u := newUnit(workspace.WsKey(c), c, nil)
			u.waits = depWaits(c, nil)
			wsUnits[c.Name()] = u
			units = append(units, u)

		default:
			return nil, zerr.With(zerr.New("command is neither package nor workspace scoped"), "command", cmd.Name())
		}
	}

	return units, nil
}
