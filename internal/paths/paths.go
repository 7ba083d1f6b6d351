// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"

	"statement-scan/internal/platform"
)

// GetConfigDir returns the statement-scan configuration directory.
// STATEMENT_SCAN_CONFIG_DIR overrides the platform default.
func GetConfigDir() string {
	return platform.GetPlatform().GetConfigDir()
}

// GetConfigFile returns the path to the main config file.
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetOverridesFile returns the path to the user-level overrides file.
func GetOverridesFile() string {
	return filepath.Join(GetConfigDir(), "overrides.yaml")
}

// NormalizePath normalizes a file path for the current platform.
func NormalizePath(path string) string {
	return platform.GetPlatform().NormalizePath(path)
}

// ResolvePath resolves a path to its absolute, normalized form.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filepath.Abs(NormalizePath(path))
}

// ValidatePath rejects paths the current platform cannot open. Unix only
// forbids null bytes; Windows additionally reserves several punctuation
// characters.
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if platform.IsWindows() {
		return validateWindowsPath(path)
	}
	return validateUnixPath(path)
}

func validateWindowsPath(path string) error {
	for i, char := range path {
		switch char {
		case '<', '>', '"', '|', '?', '*':
			return &PathValidationError{Path: path, Reason: "contains invalid character: " + string(char)}
		case ':':
			// A colon is only legal as part of the drive letter (C:).
			if i != 1 {
				return &PathValidationError{Path: path, Reason: "contains invalid character: :"}
			}
		case 0:
			return &PathValidationError{Path: path, Reason: "contains null byte"}
		}
	}
	if len(path) > 32767 {
		return &PathValidationError{Path: path, Reason: "path exceeds maximum length of 32,767 characters"}
	}
	return nil
}

func validateUnixPath(path string) error {
	for _, char := range path {
		if char == 0 {
			return &PathValidationError{Path: path, Reason: "contains null byte"}
		}
	}
	return nil
}

// PathValidationError represents a path validation error.
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
