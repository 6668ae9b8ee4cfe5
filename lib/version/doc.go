// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build version information for the safekey
// binary.
//
// Release builds inject [Version], [GitCommit] and [BuildTime] with
// -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/safekey/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/safekey
//
// Builds without ldflags (go install, go run) fall back to the VCS
// stamp the Go toolchain embeds in the binary, when there is one.
package version
