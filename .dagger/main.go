// emorelay CI
//
// Package main provides reproducible builds and tests locally and in CI.
package main

import (
	"context"

	"dagger/emorelay/internal/dagger"
)

// Emorelay is the CI module for the emorelay relay.
type Emorelay struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Emorelay CI module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", "build", "tmp", "_examples"]
	source *dagger.Directory,
) *Emorelay {
	return &Emorelay{
		Source: source,
	}
}

// goContainer returns a Go container with caches and the project source
// mounted. emorelay is pure Go, so CGO stays off.
func (e *Emorelay) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.24-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", e.Source)
}

// Test runs the unit tests via "go test"
func (e *Emorelay) Test(ctx context.Context) (string, error) {
	return e.goContainer().
		WithExec([]string{"go", "test", "./..."}).
		Stdout(ctx)
}

// Vet runs "go vet" over every package.
func (e *Emorelay) Vet(ctx context.Context) (string, error) {
	return e.goContainer().
		WithExec([]string{"go", "vet", "./..."}).
		Stdout(ctx)
}
