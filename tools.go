//go:build tools
// +build tools

// Package linechat tracks code generators (mockgen) as module dependencies so
// `go generate ./...` works on a fresh checkout.
package linechat

import (
	_ "go.uber.org/mock/mockgen"
)
