package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/emorelay/internal/dagger"
)

// CheckGoModTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (e *Emorelay) CheckGoModTidy(ctx context.Context) (string, error) {
	_, err := e.goContainer().
		WithExec([]string{"sh", "-c", "cp go.mod /tmp/go.mod && cp go.sum /tmp/go.sum"}).
		WithExec([]string{"go", "mod", "tidy"}).
		WithExec([]string{"sh", "-c", "diff -u /tmp/go.mod go.mod && diff -u /tmp/go.sum go.sum"}).
		Stdout(ctx)

	var execErr *dagger.ExecError
	switch {
	case errors.As(err, &execErr):
		return "", fmt.Errorf("module is not tidy, run 'go mod tidy':\n\n%s", execErr.Stdout)
	case err != nil:
		return "", fmt.Errorf("checking go mod tidy: %w", err)
	}

	return "go.mod and go.sum are tidy", nil
}
