package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type importEdge struct {
	file string
	imp  string
}

func TestLayerBoundaries(t *testing.T) {
	root, modulePath := moduleInfo(t)

	var violations []string
	for _, e := range scanImports(t, root, modulePath) {
		layer := layerFor(e.file)
		if layer == "" {
			continue
		}
		for _, bad := range disallowedImports(modulePath, layer) {
			if hasPkgPrefix(e.imp, bad) {
				violations = append(violations, fmt.Sprintf("- %s (%s) imports %q", e.file, layer, e.imp))
				break
			}
		}
	}
	if len(violations) > 0 {
		t.Fatalf("layer boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

func TestClientsOnlyWiredByApp(t *testing.T) {
	root, modulePath := moduleInfo(t)
	clients := modulePath + "/internal/clients"

	var violations []string
	for _, e := range scanImports(t, root, modulePath) {
		if !hasPkgPrefix(e.imp, clients) {
			continue
		}
		if strings.HasPrefix(e.file, "internal/app/") || strings.HasPrefix(e.file, "internal/clients/") {
			continue
		}
		violations = append(violations, fmt.Sprintf("- %s imports %q", e.file, e.imp))
	}
	if len(violations) > 0 {
		t.Fatalf("internal/clients must only be wired from internal/app:\n%s", strings.Join(violations, "\n"))
	}
}

func layerFor(rel string) string {
	for _, layer := range []string{"domain", "data", "services", "http", "realtime", "observability", "pkg"} {
		if strings.HasPrefix(rel, "internal/"+layer+"/") {
			return layer
		}
	}
	return ""
}

// disallowedImports lists, per layer, the in-module packages it may not depend on.
func disallowedImports(modulePath, layer string) []string {
	in := func(names ...string) []string {
		out := make([]string, 0, len(names))
		for _, n := range names {
			out = append(out, modulePath+"/internal/"+n)
		}
		return out
	}
	switch layer {
	case "domain":
		return in("data", "services", "http", "app", "realtime", "clients")
	case "data":
		return in("services", "http", "app", "realtime", "clients")
	case "services":
		return in("http", "app", "clients")
	case "http":
		return in("data", "app", "clients")
	case "realtime":
		return in("data", "services", "http", "app", "clients")
	case "observability", "pkg":
		return in("domain", "data", "services", "http", "app", "realtime", "clients")
	default:
		return nil
	}
}

func hasPkgPrefix(imp, pkg string) bool {
	return imp == pkg || strings.HasPrefix(imp, pkg+"/")
}

func moduleInfo(t *testing.T) (string, string) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return root, modulePath
}

// scanImports returns every in-module import under internal/, keyed by module-relative file.
func scanImports(t *testing.T, root, modulePath string) []importEdge {
	t.Helper()
	fset := token.NewFileSet()
	var edges []importEdge

	err := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "vendor" || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !hasPkgPrefix(imp, modulePath) {
				continue
			}
			edges = append(edges, importEdge{file: filepath.ToSlash(rel), imp: imp})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk internal/: %v", err)
	}
	return edges
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mp, ok := strings.CutPrefix(line, "module "); ok {
			if mp = strings.TrimSpace(mp); mp == "" {
				return "", fmt.Errorf("empty module path in %s", goModPath)
			}
			return mp, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
