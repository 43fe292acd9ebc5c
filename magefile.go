//go:build mage

// Magefile for go-syncguard build and test tasks
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName   = "go-syncguard"
	mainPackage  = "./cmd/go-syncguard"
	versionPkg   = "github.com/mrz1836/go-syncguard/internal/version"
	coverProfile = "coverage.out"
)

// Default target when running mage with no arguments
var Default = Build

// ldflags embeds version, commit, and build date into the binary
func ldflags() string {
	version := os.Getenv("VERSION")
	if version == "" {
		if tag, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil {
			version = strings.TrimPrefix(tag, "v")
		} else {
			version = "dev"
		}
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "unknown"
	}

	return strings.Join([]string{
		"-s", "-w",
		fmt.Sprintf("-X %s.version=%s", versionPkg, version),
		fmt.Sprintf("-X %s.commit=%s", versionPkg, commit),
		fmt.Sprintf("-X %s.buildDate=%s", versionPkg, time.Now().UTC().Format(time.RFC3339)),
	}, " ")
}

// Build compiles the go-syncguard binary into ./bin
func Build() error {
	fmt.Println("🔨 Building", binaryName)
	return sh.RunV("go", "build", "-trimpath", "-ldflags", ldflags(), "-o", "bin/"+binaryName, mainPackage)
}

// Install installs go-syncguard into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "-trimpath", "-ldflags", ldflags(), mainPackage)
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestRace runs the unit tests with the race detector
func TestRace() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Coverage runs the tests with a coverage profile and prints the summary
func Coverage() error {
	if err := sh.RunV("go", "test", "-covermode=atomic", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverProfile)
}

// Lint runs go vet and golangci-lint when it is installed
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	if _, err := sh.Output("golangci-lint", "version"); err != nil {
		fmt.Println("⚠️ golangci-lint not installed, skipping")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Check runs lint and race tests
func Check() {
	mg.SerialDeps(Lint, TestRace)
}

// Clean removes build output
func Clean() error {
	for _, path := range []string{"bin", coverProfile} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}
