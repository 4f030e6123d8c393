//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "diffcover"

// Default target executed when none is specified.
var Default = CI

// CI runs format, vet, the test suite, and the stamped build.
func CI() {
	mg.SerialDeps(Format, Vet, Test, Build)
}

// Format updates Go sources using gofmt.
func Format() error {
	return sh.RunV("go", "fmt", "./...")
}

// Vet performs static analysis.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the suite with coverage enabled, producing the profile a
// Cobertura converter can feed back into the tool itself.
func Test() error {
	return sh.RunV("go", "test", "-coverprofile=coverage.out", "./...")
}

// Build compiles the CLI with the version stamped from the nearest git tag.
func Build() error {
	return sh.RunV("go", "build", "-ldflags", versionLdflags(), "-o", binary, "./cmd/"+binary)
}

// Install places the stamped binary in GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", versionLdflags(), "./cmd/"+binary)
}

// Clean removes build and coverage artifacts.
func Clean() error {
	for _, name := range []string{binary, "coverage.out"} {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

func versionLdflags() string {
	return fmt.Sprintf("-X github.com/bkyoung/diffcover/internal/version.version=%s", resolveVersion())
}

// resolveVersion reports the nearest tag, marked dirty when the tree has
// uncommitted changes or HEAD has moved past the tag.
func resolveVersion() string {
	tag, err := sh.Output("git", "describe", "--tags", "--abbrev=0")
	tag = strings.TrimSpace(tag)
	if err != nil || tag == "" {
		return "v0.0.0"
	}
	if treeDirty() || !exactlyOnTag() {
		return tag + "-dirty"
	}
	return tag
}

func treeDirty() bool {
	out, err := sh.Output("git", "status", "--porcelain")
	return err == nil && strings.TrimSpace(out) != ""
}

func exactlyOnTag() bool {
	_, err := sh.Output("git", "describe", "--tags", "--exact-match")
	return err == nil
}
