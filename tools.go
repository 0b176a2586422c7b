//go:build tools

// Package tools tracks build-time tool dependencies (mockgen) in go.mod so
// `go generate` works on a fresh checkout.
package chatrelay

import (
	_ "go.uber.org/mock/mockgen"
)
