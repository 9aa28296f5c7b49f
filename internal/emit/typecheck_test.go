// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/featgen/featgen/internal/feature"
	"github.com/featgen/featgen/pkg/registry"
)

// registrySourceDir is pkg/registry relative to this package.
const registrySourceDir = "../../pkg/registry"

// sourceImporter type-checks in-memory packages and falls back to the
// standard library sources for everything else.
type sourceImporter struct {
	fset *token.FileSet
	std  types.Importer
	pkgs map[string]*types.Package
}

func newSourceImporter(fset *token.FileSet) *sourceImporter {
	return &sourceImporter{
		fset: fset,
		std:  importer.ForCompiler(fset, "source", nil),
		pkgs: make(map[string]*types.Package),
	}
}

func (im *sourceImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := im.pkgs[path]; ok {
		return pkg, nil
	}
	return im.std.Import(path)
}

func (im *sourceImporter) check(t *testing.T, importPath string, files []*ast.File) *types.Package {
	t.Helper()
	conf := types.Config{Importer: im}
	pkg, err := conf.Check(importPath, im.fset, files, nil)
	if err != nil {
		t.Fatalf("type-checking %s: %v", importPath, err)
	}
	im.pkgs[importPath] = pkg
	return pkg
}

func (im *sourceImporter) parse(t *testing.T, name string, src []byte) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(im.fset, name, src, 0)
	if err != nil {
		t.Fatalf("parsing %s: %v\n%s", name, err, src)
	}
	return f
}

func (im *sourceImporter) loadRuntime(t *testing.T) *types.Package {
	t.Helper()
	entries, err := os.ReadDir(registrySourceDir)
	if err != nil {
		t.Fatal(err)
	}
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		src, err := os.ReadFile(filepath.Join(registrySourceDir, name))
		if err != nil {
			t.Fatal(err)
		}
		files = append(files, im.parse(t, name, src))
	}
	return im.check(t, registry.ImportPath, files)
}

func compileFeatures() []feature.Descriptor {
	module := func(dir, pkg string) feature.ModuleRef {
		return feature.ModuleRef{
			Dir:         "internal/features/" + dir,
			ImportPath:  "example.com/app/internal/features/" + dir,
			PackageName: pkg,
		}
	}
	return []feature.Descriptor{
		{
			ID:          "shop",
			Title:       "Shop",
			Description: "Products\nand \"orders\"",
			Routes:      []feature.Route{{Path: "/shop", Title: "Shop", Primary: true}, {Path: "/shop/cart", Title: "Cart"}},
			Nav:         &feature.Nav{Label: "Shop", Order: feature.IntPtr(0)},
			Module:      module("shop", "shop"),
		},
		{
			ID:     "init",
			Title:  "Setup",
			Routes: []feature.Route{{Path: "/init", Title: "Setup", Primary: true}},
			Nav:    &feature.Nav{Label: "Setup"},
			Module: module("init", "initfeature"),
		},
		{
			ID:     "registry",
			Title:  "Registry",
			Module: module("registry", "registry"),
		},
		{
			ID:     "blog",
			Title:  "Blog",
			Module: module("blog", "blog"),
		},
		{
			ID:     "other-blog",
			Title:  "Other blog",
			Module: module("other/blog", "blog"),
		},
	}
}

func TestEmit_ArtifactsTypeCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		features []feature.Descriptor
		nav      feature.Navigation
	}{
		{
			name:     "features with aliases that need rewriting",
			features: compileFeatures(),
			nav: feature.Navigation{
				{FeatureID: "shop", Label: "Shop", Path: "/shop", Order: feature.IntPtr(0)},
				{FeatureID: "init", Label: "Setup", Path: "/init"},
			},
		},
		{
			name: "empty project",
			nav:  feature.Navigation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Emit(tt.features, tt.nav, Options{FeatureRoot: "internal/features"})
			if err != nil {
				t.Fatalf("Emit() error = %v", err)
			}

			im := newSourceImporter(token.NewFileSet())
			runtime := im.loadRuntime(t)
			for _, f := range tt.features {
				src := fmt.Sprintf("package %s\n\nimport %q\n\nfunc Module() registry.Module { return registry.Compose() }\n",
					f.Module.PackageName, registry.ImportPath)
				im.check(t, f.Module.ImportPath, []*ast.File{im.parse(t, f.Module.Dir+"/module.go", []byte(src))})
			}

			pkg := im.check(t, "example.com/app/internal/featureregistry", []*ast.File{
				im.parse(t, "registry_gen.go", out.Registry),
				im.parse(t, "modules_gen.go", out.Aggregator),
			})

			wantTypes := map[string]string{
				"Features":   "[]" + registry.ImportPath + ".Feature",
				"Navigation": "[]" + registry.ImportPath + ".NavEntry",
			}
			for name, want := range wantTypes {
				obj := pkg.Scope().Lookup(name)
				if obj == nil {
					t.Fatalf("artifact package does not declare %s", name)
				}
				if got := obj.Type().String(); got != want {
					t.Errorf("%s has type %s, want %s", name, got, want)
				}
			}

			module := pkg.Scope().Lookup("Module")
			if module == nil {
				t.Fatal("aggregator does not declare Module")
			}
			iface := runtime.Scope().Lookup("Module").Type().Underlying().(*types.Interface)
			if !types.Implements(module.Type(), iface) {
				t.Errorf("Module has type %s, which does not implement registry.Module", module.Type())
			}
		})
	}
}
