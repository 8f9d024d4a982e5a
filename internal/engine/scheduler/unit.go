package scheduler

import (
	"context"
	"sync"

	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/workspace"
	"go.trai.ch/zerr"
)

// unit is one schedulable execution: a workspace command, or a package
// command applied to one package.
type unit struct {
	key string
	cmd workspace.Command

	// pkg is nil for workspace-scoped units.
	pkg *domain.Package

	// waits are the units that must complete before this one starts. They
	// combine the command graph (dependency commands) with the package graph
	// (the same command on dependency packages).
	waits []*unit

	// done is closed once the unit counts as complete for its dependents:
	// finished, failed, skipped, signalled readiness, or, for run-immediately
	// units, spawned. err is set before done is closed and never written
	// afterwards.
	once sync.Once
	done chan struct{}
	err  error
}

func newUnit(key string, cmd workspace.Command, pkg *domain.Package) *unit {
	return &unit{
		key:  key,
		cmd:  cmd,
		pkg:  pkg,
		done: make(chan struct{}),
	}
}

// complete releases the unit's dependents. A non-nil err marks them as
// blocked by this unit's failure. Only the first call settles the unit; a
// run-immediately unit completes at spawn and its later return is a no-op
// here.
func (u *unit) complete(err error) {
	u.once.Do(func() {
		u.err = err
		close(u.done)
	})
}

// await blocks until every awaited unit has completed, failing when one of
// them failed or ctx ended first.
func (u *unit) await(ctx context.Context) error {
	for _, w := range u.waits {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			if w.err != nil {
				err := zerr.With(domain.ErrDependencyFailed, "unit", u.key)
				return zerr.With(err, "failed_dependency", w.key)
			}
		}
	}
	return nil
}
