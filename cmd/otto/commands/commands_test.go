package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "go.trai.ch/otto/cmd/otto/commands"
	"go.trai.ch/otto/internal/app"
	"go.trai.ch/otto/internal/build"
	"go.trai.ch/otto/internal/commands"
)

type mockApp struct {
	buildFunc func(ctx context.Context, opts app.RunOptions, args commands.BuildArgs) error
	fixFunc   func(ctx context.Context, opts app.RunOptions, args commands.FixArgs) error
}

func (m *mockApp) Build(ctx context.Context, opts app.RunOptions, args commands.BuildArgs) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts, args)
	}
	return nil
}

func (m *mockApp) Fix(ctx context.Context, opts app.RunOptions, args commands.FixArgs) error {
	if m.fixFunc != nil {
		return m.fixFunc(ctx, opts, args)
	}
	return nil
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedArgs commands.BuildArgs
		called := false

		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.RunOptions, args commands.BuildArgs) error {
				capturedOpts = opts
				capturedArgs = args
				called = true
				return nil
			},
		}

		c := cli.New(mock)
		c.SetArgs([]string{"build", "--watch", "--release", "--lint-fail", "--package", "app"})

		require.NoError(t, c.Execute(context.Background()))
		assert.True(t, called)
		assert.True(t, capturedArgs.Watch)
		assert.True(t, capturedArgs.Release)
		assert.True(t, capturedArgs.LintFail)
		assert.Equal(t, "app", capturedOpts.Package)
	})

	t.Run("defaults are off", func(t *testing.T) {
		var capturedArgs commands.BuildArgs
		mock := &mockApp{
			buildFunc: func(_ context.Context, _ app.RunOptions, args commands.BuildArgs) error {
				capturedArgs = args
				return nil
			},
		}

		c := cli.New(mock)
		c.SetArgs([]string{"build"})

		require.NoError(t, c.Execute(context.Background()))
		assert.False(t, capturedArgs.Watch)
		assert.False(t, capturedArgs.Release)
		assert.False(t, capturedArgs.LintFail)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(context.Context, app.RunOptions, commands.BuildArgs) error {
				return errors.New("simulated error")
			},
		}

		c := cli.New(mock)
		c.SetArgs([]string{"build"})
		c.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := c.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Fix(t *testing.T) {
	var capturedArgs commands.FixArgs
	mock := &mockApp{
		fixFunc: func(_ context.Context, _ app.RunOptions, args commands.FixArgs) error {
			capturedArgs = args
			return nil
		},
	}

	c := cli.New(mock)
	c.SetArgs([]string{"fix", "--", "--semicolons=always"})

	require.NoError(t, c.Execute(context.Background()))
	assert.Equal(t, []string{"--semicolons=always"}, capturedArgs.BiomeArgs)
}

func TestCommands_Version(t *testing.T) {
	c := cli.New(&mockApp{})

	buf := new(bytes.Buffer)
	c.SetOutput(buf, buf)
	c.SetArgs([]string{"version"})

	require.NoError(t, c.Execute(context.Background()))
	assert.Contains(t, buf.String(), build.Version)
}
