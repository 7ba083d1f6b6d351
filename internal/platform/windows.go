// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// WindowsPlatform implements Platform for Windows.
type WindowsPlatform struct{}

// GetConfigDir returns the Windows-appropriate configuration directory.
func (w *WindowsPlatform) GetConfigDir() string {
	// Explicit override first
	if dir := os.Getenv("STATEMENT_SCAN_CONFIG_DIR"); dir != "" {
		return dir
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "statement-scan")
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, ".statement-scan")
	}
	return ".statement-scan"
}

// GetTempDir returns the Windows temporary directory.
func (w *WindowsPlatform) GetTempDir() string {
	if tmp := os.Getenv("TEMP"); tmp != "" {
		return tmp
	}
	if tmp := os.Getenv("TMP"); tmp != "" {
		return tmp
	}
	return filepath.Join("C:", "Windows", "Temp")
}

// IsAbsolutePath checks if a path is absolute on Windows, including UNC
// paths and drive-letter paths.
func (w *WindowsPlatform) IsAbsolutePath(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	// UNC path: \\server\share
	if strings.HasPrefix(path, `\\`) {
		return true
	}
	// Drive letter: C:\...
	return len(path) >= 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/')
}

// NormalizePath normalizes a path for Windows, converting forward slashes.
func (w *WindowsPlatform) NormalizePath(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// SupportsCaseSensitivePaths returns false for Windows.
func (w *WindowsPlatform) SupportsCaseSensitivePaths() bool {
	return false
}
