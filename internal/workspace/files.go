package workspace

import (
	"io/fs"
	"path/filepath"
	"slices"

	"go.trai.ch/otto/internal/adapters/manifest"
	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/zerr"
)

// SrcDir is the directory a package keeps its sources in, relative to the
// package root.
const SrcDir = "src"

// DistDir is the directory build outputs land in, relative to the package
// root.
const DistDir = "dist"

// sourceExtensions are the file extensions the compiler and linter consume.
// Everything else under src/ is an asset.
var sourceExtensions = map[string]bool{
	".ts":   true,
	".tsx":  true,
	".mts":  true,
	".cts":  true,
	".js":   true,
	".jsx":  true,
	".json": true,
}

func walkSrc(pkg *domain.Package, keep func(path string) bool) ([]string, error) {
	srcRoot := filepath.Join(pkg.Root, SrcDir)

	var files []string
	err := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == srcRoot {
				// A package without a src directory simply has no files.
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}
		if keep(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to enumerate package files"), "package", pkg.Name.String())
	}

	slices.Sort(files)
	return files, nil
}

// SourceFiles returns the compilable and lintable files of pkg, sorted.
func SourceFiles(pkg *domain.Package) ([]string, error) {
	return walkSrc(pkg, func(path string) bool {
		return sourceExtensions[filepath.Ext(path)]
	})
}

// AssetFiles returns the files under src/ that are copied to dist/ verbatim
// rather than compiled, sorted.
func AssetFiles(pkg *domain.Package) ([]string, error) {
	return walkSrc(pkg, func(path string) bool {
		return !sourceExtensions[filepath.Ext(path)]
	})
}

// AllFiles returns every input file of pkg: the package manifest plus
// everything under src/, sorted.
func AllFiles(pkg *domain.Package) ([]string, error) {
	files, err := walkSrc(pkg, func(string) bool { return true })
	if err != nil {
		return nil, err
	}
	files = append(files, filepath.Join(pkg.Root, manifest.PackageFileName))
	slices.Sort(files)
	return files, nil
}
