//go:build tools

// Package tools records the development tools used on this module.
// They are installed with `go install` and deliberately kept out of go.mod.
package tools

// Air reloads `recruit-admin serve` while editing templates and handlers:
//
//	go install github.com/air-verse/air@v1.63.0
//	DEV=true air -- serve
//
// mockgen regenerates internal/mocks after port changes (see internal/mocks/generate.go):
//
//	go generate ./internal/mocks
