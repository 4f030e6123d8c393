package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRepositoryName(t *testing.T) {
	dir := t.TempDir()

	name := repositoryName(dir)
	if name != filepath.Base(dir) {
		t.Errorf("expected %s, got %s", filepath.Base(dir), name)
	}
}

func TestRepositoryNameRelative(t *testing.T) {
	name := repositoryName(".")
	if name == "" || name == "." {
		t.Errorf("expected resolved directory name, got %q", name)
	}
}

func TestDefaultConfigPaths(t *testing.T) {
	paths := defaultConfigPaths()

	if len(paths) == 0 || paths[0] != "." {
		t.Fatalf("expected current directory first, got %v", paths)
	}
	for _, p := range paths[1:] {
		if !strings.HasSuffix(p, filepath.Join(".config", "diffcover")) {
			t.Errorf("unexpected config path %s", p)
		}
	}
}
