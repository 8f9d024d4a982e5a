package commands

import (
	"context"
	"os/exec"

	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/workspace"
)

// FixArgs are the user-facing fix options.
type FixArgs struct {
	// BiomeArgs are extra arguments passed through to biome.
	BiomeArgs []string
}

// Fix applies automatic lint fixes per package. It runs immediately, without
// waiting for dependency packages: fixes are independent of build order.
type Fix struct {
	args FixArgs
}

// NewFix creates the fix command.
func NewFix(args FixArgs) *Fix {
	return &Fix{args: args}
}

func (c *Fix) Name() string { return "fix" }

func (c *Fix) Runtime() workspace.Runtime { return workspace.RunImmediately }

func (c *Fix) Deps() []workspace.Command { return nil }

// RunPkg runs biome in fix mode over the package sources. Remaining findings
// are tolerated; only a failure to spawn the tool is an error.
func (c *Fix) RunPkg(ctx context.Context, ws *workspace.Workspace, pkg *domain.Package) error {
	sources, err := workspace.SourceFiles(pkg)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return nil
	}

	process, err := ws.PkgStartProcess(ctx, pkg, "biome", func(cmd *exec.Cmd) {
		cmd.Args = append(cmd.Args, "check", "--fix")
		cmd.Args = append(cmd.Args, sources...)
		cmd.Args = append(cmd.Args, c.args.BiomeArgs...)
	})
	if err != nil {
		return err
	}

	process.Wait()
	return nil
}
