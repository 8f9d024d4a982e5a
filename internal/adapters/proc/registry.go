package proc

import (
	"os/exec"
	"slices"
	"sync"

	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry is the workspace-wide set of live processes. It exists so that an
// abort or interrupt can reach every in-flight tool invocation, including
// run-forever watchers.
type Registry struct {
	logger ports.Logger

	mu    sync.Mutex
	procs []*Process
}

// NewRegistry creates an empty registry. Process output is forwarded to the
// given logger, tagged per process.
func NewRegistry(logger ports.Logger) *Registry {
	return &Registry{logger: logger}
}

// Start spawns cmd under the given tool name, applying configure before the
// process is launched. The handle is registered before Start returns, so a
// concurrent KillAll can never race past a running-but-unregistered process.
//
// tag is prepended to every output line; it usually combines the tool name
// with the package the invocation runs for.
func (r *Registry) Start(name, tag string, cmd *exec.Cmd, configure func(*exec.Cmd)) (*Process, error) {
	if configure != nil {
		configure(cmd)
	}

	p := &Process{
		name: name,
		tag:  tag,
		cmd:  cmd,
		out:  &tagWriter{logger: r.logger, tag: tag},
		errw: &tagWriter{logger: r.logger, tag: tag, stderr: true},
		done: make(chan struct{}),
	}
	if cmd.Stdout == nil {
		cmd.Stdout = p.out
	}
	if cmd.Stderr == nil {
		cmd.Stderr = p.errw
	}

	r.add(p)
	if err := cmd.Start(); err != nil {
		r.remove(p)
		return nil, zerr.With(zerr.Wrap(err, "failed to spawn tool"), "tool", name)
	}

	// Reap in the background so the registry entry disappears only after the
	// process actually finished or was cancelled.
	go func() {
		err := cmd.Wait()
		p.finish(err)
		r.remove(p)
	}()

	return p, nil
}

func (r *Registry) add(p *Process) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.procs = append(r.procs, p)
}

func (r *Registry) remove(p *Process) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := slices.Index(r.procs, p); i >= 0 {
		r.procs = slices.Delete(r.procs, i, i+1)
	}
}

// Live returns a snapshot of the currently registered processes.
func (r *Registry) Live() []*Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.procs)
}

// KillAll terminates every registered process, best effort. Termination is
// never silently skipped: a kill failure on a still-running process is
// logged.
func (r *Registry) KillAll() {
	for _, p := range r.Live() {
		select {
		case <-p.done:
			continue
		default:
		}
		if p.cmd.Process == nil {
			continue
		}
		if err := p.cmd.Process.Kill(); err != nil {
			select {
			case <-p.done:
				// Lost the race with a normal exit; nothing to report.
			default:
				r.logger.Error(zerr.With(zerr.Wrap(err, "failed to kill process"), "tool", p.name))
			}
		}
	}
}

// AwaitAll blocks until every currently registered process has terminated.
func (r *Registry) AwaitAll() {
	for _, p := range r.Live() {
		<-p.done
	}
}
