// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"path"
	"strconv"

	"github.com/featgen/featgen/internal/feature"

	"github.com/spf13/afero"
)

// inspectModule parses a feature's module.go and checks for the entrypoint
// func Module() <pkg>.Module, where <pkg> is the file's import of
// runtimeImport. It returns the package name on success, or a
// diagnostic describing why the file does not qualify. The error return is
// reserved for read failures.
func inspectModule(fs afero.Fs, filePath, displayPath, runtimeImport string) (string, *feature.Diagnostic, error) {
	src, err := afero.ReadFile(fs, filePath)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", displayPath, err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, displayPath, src, parser.SkipObjectResolution)
	if err != nil {
		msg := err.Error()
		var list scanner.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			msg = list[0].Error()
		}
		d := feature.NewError(feature.CodeModuleParseFailed, "", msg).WithFile(displayPath)
		return "", &d, nil
	}

	pkgName := file.Name.Name
	if pkgName == "main" {
		d := feature.NewError(feature.CodeModuleEntrypointMissing, "",
			"package main cannot be imported by the aggregator; use a library package").
			WithFile(displayPath)
		return "", &d, nil
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != feature.ModuleFuncName {
			continue
		}
		if problem := entrypointProblem(fn, runtimeNames(file, runtimeImport), runtimeImport); problem != "" {
			d := feature.NewError(feature.CodeModuleEntrypointMissing, "", problem).
				WithFile(fmt.Sprintf("%s:%d", displayPath, fset.Position(fn.Pos()).Line))
			return "", &d, nil
		}
		return pkgName, nil, nil
	}

	d := feature.NewError(feature.CodeModuleEntrypointMissing, "",
		"no top-level func Module() registry.Module declared").WithFile(displayPath)
	return "", &d, nil
}

// entrypointProblem describes what is wrong with a Module declaration, or
// returns "" when it has the required shape. names holds the identifiers the
// file binds runtimeImport to.
func entrypointProblem(fn *ast.FuncDecl, names map[string]bool, runtimeImport string) string {
	switch {
	case fn.Recv != nil:
		return "Module must be a function, not a method"
	case fn.Type.TypeParams.NumFields() > 0:
		return "Module must not have type parameters"
	case fn.Type.Params.NumFields() > 0:
		return "Module must not take parameters"
	case fn.Type.Results.NumFields() != 1:
		return "Module must return exactly one value of type registry.Module"
	}

	sel, ok := fn.Type.Results.List[0].Type.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Module" {
		return "Module must return registry.Module"
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || !names[pkg.Name] {
		return fmt.Sprintf("Module must return registry.Module from %q, got %s.Module", runtimeImport, exprName(sel.X))
	}
	return ""
}

// runtimeNames returns the names under which file imports runtimeImport.
func runtimeNames(file *ast.File, runtimeImport string) map[string]bool {
	names := make(map[string]bool, 1)
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil || importPath != runtimeImport {
			continue
		}
		switch {
		case spec.Name == nil:
			names[path.Base(importPath)] = true
		case spec.Name.Name != "_" && spec.Name.Name != ".":
			names[spec.Name.Name] = true
		}
	}
	return names
}

func exprName(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return fmt.Sprintf("%T", e)
}
