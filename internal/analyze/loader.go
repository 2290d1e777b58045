package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// ErrFileNotInPackage is returned when the loaded packages do not contain the requested file.
var ErrFileNotInPackage = errors.New("file not found in loaded packages")

// Provider parses a buffer into a type-checked Unit. src is the buffer's
// current content, which may differ from what is stored on disk.
type Provider interface {
	Load(ctx context.Context, path string, src []byte) (*Unit, error)
}

// ReadFunc returns the current content of the file at path.
type ReadFunc func(ctx context.Context, path string) ([]byte, error)

// SourceProvider type-checks the buffer together with the other non-test Go
// files of its directory using go/types. Imports are type-checked from
// source, so it needs no build cache and no go command.
type SourceProvider struct {
	// PkgPath is the import path given to the checked package. When empty
	// the package name is used.
	PkgPath string
	// Read supplies sibling contents. Nil reads them from disk.
	Read ReadFunc
}

// Load implements Provider.
func (p SourceProvider) Load(ctx context.Context, path string, src []byte) (*Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	siblings, skipped := p.parseSiblings(ctx, fset, path, file.Name.Name)
	files := append([]*ast.File{file}, siblings...)

	pkgPath := p.PkgPath
	if pkgPath == "" {
		pkgPath = file.Name.Name
	}

	unit := &Unit{
		Path:  path,
		Src:   src,
		Fset:  fset,
		File:  file,
		Files: files,
		Info:  NewInfo(),

		SiblingErrors: skipped,
	}

	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error: func(err error) {
			unit.TypeErrors = append(unit.TypeErrors, err)
		},
	}

	// Check reports the first error again; all of them are already collected.
	unit.Pkg, _ = conf.Check(pkgPath, fset, files, unit.Info)

	return unit, nil
}

// parseSiblings parses the other files of path's directory that belong to
// package pkgName. Siblings that cannot be read or parsed are returned as
// errors; files of other packages are ignored. A missing directory has no
// siblings.
func (p SourceProvider) parseSiblings(ctx context.Context, fset *token.FileSet, path, pkgName string) ([]*ast.File, []error) {
	dir := filepath.Dir(path)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, []error{fmt.Errorf("listing %s: %w", dir, err)}
	}

	read := p.Read
	if read == nil {
		read = func(_ context.Context, path string) ([]byte, error) {
			return os.ReadFile(path)
		}
	}

	self, _ := filepath.Abs(path)

	var (
		files   []*ast.File
		skipped []error
	)

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		sibling := filepath.Join(dir, name)
		if abs, _ := filepath.Abs(sibling); abs == self {
			continue
		}

		src, err := read(ctx, sibling)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("reading %s: %w", sibling, err))
			continue
		}

		f, err := parser.ParseFile(fset, sibling, src, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("parsing %s: %w", sibling, err))
			continue
		}

		if f.Name.Name == pkgName {
			files = append(files, f)
		}
	}

	return files, skipped
}

// NewInfo returns a types.Info with every map the pipeline relies on.
func NewInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
}

// PackagesProvider loads the package containing the buffer with
// golang.org/x/tools/go/packages, overlaying the buffer content so that
// unsaved edits are analysed.
type PackagesProvider struct {
	// BuildFlags are passed to the underlying build tool.
	BuildFlags []string
}

// Load implements Provider.
func (p PackagesProvider) Load(ctx context.Context, path string, src []byte) (*Unit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	cfg := &packages.Config{
		Mode:       LoadMode,
		Context:    ctx,
		Dir:        filepath.Dir(abs),
		BuildFlags: p.BuildFlags,
		Overlay:    map[string][]byte{abs: src},
	}

	pkgs, err := packages.Load(cfg, "file="+abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	for _, pkg := range pkgs {
		for _, f := range pkg.Syntax {
			if pkg.Fset.Position(f.Package).Filename != abs {
				continue
			}

			unit := &Unit{
				Path:  path,
				Src:   src,
				Fset:  pkg.Fset,
				File:  f,
				Files: pkg.Syntax,
				Pkg:   pkg.Types,
				Info:  pkg.TypesInfo,
			}

			for _, e := range pkg.Errors {
				unit.TypeErrors = append(unit.TypeErrors, e)
			}

			return unit, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", path, ErrFileNotInPackage)
}
