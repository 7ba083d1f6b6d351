// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
)

// UnixPlatform implements Platform for Unix-like systems (Linux, macOS, etc.).
type UnixPlatform struct{}

// GetConfigDir returns the Unix-appropriate configuration directory.
func (u *UnixPlatform) GetConfigDir() string {
	// Explicit override first
	if dir := os.Getenv("STATEMENT_SCAN_CONFIG_DIR"); dir != "" {
		return dir
	}

	// XDG Base Directory specification
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "statement-scan")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".statement-scan")
}

// GetTempDir returns the Unix temporary directory.
func (u *UnixPlatform) GetTempDir() string {
	if tmpDir := os.Getenv("TMPDIR"); tmpDir != "" {
		return tmpDir
	}
	return "/tmp"
}

// IsAbsolutePath checks if a path is absolute on Unix.
func (u *UnixPlatform) IsAbsolutePath(path string) bool {
	return filepath.IsAbs(path)
}

// NormalizePath normalizes a path for Unix.
func (u *UnixPlatform) NormalizePath(path string) string {
	return filepath.Clean(path)
}

// SupportsCaseSensitivePaths returns true for Unix.
func (u *UnixPlatform) SupportsCaseSensitivePaths() bool {
	return true
}
