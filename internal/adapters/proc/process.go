// Package proc implements the process supervision layer: spawning external
// tool invocations, tracking them in a live registry and cancelling them in
// bulk on abort or interrupt.
package proc

import (
	"os/exec"

	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/zerr"
)

// ExitStatus is the raw outcome of a finished process.
type ExitStatus struct {
	// Code is the exit code, or -1 when the process was killed or never ran
	// to a normal exit.
	Code int

	// Err holds spawn/wait failures that are not plain non-zero exits.
	Err error
}

// Success reports whether the process exited normally with code zero.
func (s ExitStatus) Success() bool {
	return s.Code == 0 && s.Err == nil
}

// Process is one spawned tool invocation. It is created by Registry.Start
// and stays in the registry until it terminates.
type Process struct {
	name string
	tag  string
	cmd  *exec.Cmd
	out  *tagWriter
	errw *tagWriter

	done   chan struct{}
	status ExitStatus
}

// Name returns the tool name the process was started with.
func (p *Process) Name() string {
	return p.name
}

// Wait suspends until the process terminates and returns its raw status.
func (p *Process) Wait() ExitStatus {
	<-p.done
	return p.status
}

// WaitForSuccess is Wait plus a tool failure on non-success exit, carrying
// the tool name and exit code.
func (p *Process) WaitForSuccess() error {
	status := p.Wait()
	if status.Success() {
		return nil
	}

	err := domain.ErrToolFailed
	if status.Err != nil {
		err = zerr.Wrap(status.Err, domain.ErrToolFailed.Error())
	}
	err = zerr.With(err, "tool", p.name)
	return zerr.With(err, "exit_code", status.Code)
}

// finish records the outcome and releases waiters. Called exactly once by
// the registry's reaper goroutine.
func (p *Process) finish(err error) {
	if err == nil {
		p.status = ExitStatus{Code: 0}
	} else if exitErr, ok := err.(*exec.ExitError); ok {
		p.status = ExitStatus{Code: exitErr.ExitCode()}
	} else {
		p.status = ExitStatus{Code: -1, Err: err}
	}

	p.out.Flush()
	p.errw.Flush()
	close(p.done)
}
