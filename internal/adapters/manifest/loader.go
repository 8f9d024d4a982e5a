// Package manifest provides workspace discovery and manifest loading.
package manifest

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	// WorkFileName is the workspace manifest filename.
	WorkFileName = "otto.work.yaml"
	// PackageFileName is the per-package manifest filename.
	PackageFileName = "otto.yaml"
	// PackagesDir is the directory a monorepo workspace keeps its packages in.
	PackagesDir = "packages"
)

var validPackageNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Loader implements ports.ManifestLoader using YAML manifests on disk.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// FindRoot walks up from cwd to the nearest directory containing a workspace
// manifest.
func (l *Loader) FindRoot(cwd string) (string, error) {
	currentDir := cwd
	for {
		workfilePath := filepath.Join(currentDir, WorkFileName)
		if _, err := os.Stat(workfilePath); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrWorkspaceNotFound, "cwd", cwd)
}

// Load reads the workspace manifest and every package manifest under root.
// Packages are returned sorted by name, with Index assigned in that order.
func (l *Loader) Load(root string) ([]*domain.Package, domain.WorkspaceConfig, error) {
	var workfile Workfile
	if err := readAndUnmarshalYAML(filepath.Join(root, WorkFileName), &workfile); err != nil {
		return nil, domain.WorkspaceConfig{}, err
	}

	cfg := domain.WorkspaceConfig{Version: workfile.Version}

	packagesRoot := filepath.Join(root, PackagesDir)
	if info, err := os.Stat(packagesRoot); err == nil && info.IsDir() {
		cfg.Monorepo = true
	}

	var pkgs []*domain.Package
	var err error
	if cfg.Monorepo {
		pkgs, err = l.loadMonorepo(packagesRoot)
	} else {
		pkgs, err = l.loadStandalone(root)
	}
	if err != nil {
		return nil, domain.WorkspaceConfig{}, err
	}

	if err := validateUnique(pkgs); err != nil {
		return nil, domain.WorkspaceConfig{}, err
	}

	slices.SortFunc(pkgs, func(a, b *domain.Package) int {
		return cmp.Compare(a.Name.String(), b.Name.String())
	})
	for i, pkg := range pkgs {
		pkg.Index = i
	}

	return pkgs, cfg, nil
}

func (l *Loader) loadMonorepo(packagesRoot string) ([]*domain.Package, error) {
	entries, err := os.ReadDir(packagesRoot)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read packages directory")
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(packagesRoot, entry.Name())
		if _, statErr := os.Stat(filepath.Join(dir, PackageFileName)); os.IsNotExist(statErr) {
			l.Logger.Warn(fmt.Sprintf("%s missing in %s, skipping", PackageFileName, entry.Name()))
			continue
		}
		dirs = append(dirs, dir)
	}

	// Manifests are independent, so read them concurrently. Results keep the
	// directory position until the caller sorts by name.
	pkgs := make([]*domain.Package, len(dirs))
	var g errgroup.Group
	for i, dir := range dirs {
		g.Go(func() error {
			pkg, loadErr := l.loadPackage(dir, true)
			if loadErr != nil {
				return loadErr
			}
			pkgs[i] = pkg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pkgs, nil
}

func (l *Loader) loadStandalone(root string) ([]*domain.Package, error) {
	pkg, err := l.loadPackage(root, false)
	if err != nil {
		return nil, err
	}
	if len(pkg.DepNames) > 0 {
		err := zerr.With(domain.ErrConfigInvalid, "package", pkg.Name.String())
		return nil, zerr.With(err, "reason", "standalone package cannot declare dependencies")
	}
	return []*domain.Package{pkg}, nil
}

func (l *Loader) loadPackage(dir string, requireName bool) (*domain.Package, error) {
	var packfile Packfile
	if err := readAndUnmarshalYAML(filepath.Join(dir, PackageFileName), &packfile); err != nil {
		return nil, zerr.With(err, "directory", dir)
	}

	name := packfile.Name
	if name == "" {
		if requireName {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "missing package name"), "directory", dir)
		}
		// A standalone package inherits its directory name.
		name = filepath.Base(dir)
	}
	if !validPackageNameRegex.MatchString(name) {
		err := zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "invalid package name"), "package_name", name)
		return nil, zerr.With(err, "directory", dir)
	}

	target, err := domain.ParseTarget(packfile.Target)
	if err != nil {
		return nil, zerr.With(err, "directory", dir)
	}

	return &domain.Package{
		Name:     domain.NewInternedString(name),
		Root:     dir,
		Target:   target,
		DepNames: internStrings(packfile.DependsOn),
		Config:   domain.PackageConfig{NoServer: packfile.NoServer},
	}, nil
}

func validateUnique(pkgs []*domain.Package) error {
	seen := make(map[domain.InternedString]string, len(pkgs))
	for _, pkg := range pkgs {
		if first, exists := seen[pkg.Name]; exists {
			err := zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "duplicate package name"), "package_name", pkg.Name.String())
			err = zerr.With(err, "first_occurrence", first)
			return zerr.With(err, "duplicate_at", pkg.Root)
		}
		seen[pkg.Name] = pkg.Root
	}
	return nil
}

func internStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}
	res := make([]domain.InternedString, len(strs))
	for i, s := range strs {
		res[i] = domain.NewInternedString(s)
	}
	return res
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](path string, target *T) error {
	// #nosec G304 -- path is derived from the workspace root
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, "failed to read manifest")
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigInvalid.Error())
	}

	return nil
}
