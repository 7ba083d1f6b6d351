// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileAttributes represents basic file attributes detectable cross-platform.
type FileAttributes struct {
	Exists   bool
	Hidden   bool
	ReadOnly bool
	Size     int64
}

// GetFileAttributes gets basic file attributes that work on all platforms.
func GetFileAttributes(filePath string) (*FileAttributes, error) {
	cleanPath := filepath.Clean(filePath)
	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileAttributes{Exists: false}, nil
		}
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	return &FileAttributes{
		Exists:   true,
		Hidden:   strings.HasPrefix(info.Name(), "."),
		ReadOnly: info.Mode().Perm()&0o200 == 0,
		Size:     info.Size(),
	}, nil
}

// IsFileHidden checks if a file is hidden. Dotfiles count as hidden on every
// platform so directory scans behave the same everywhere.
func IsFileHidden(filePath string) (bool, error) {
	attrs, err := GetFileAttributes(filePath)
	if err != nil {
		return false, err
	}
	if !attrs.Exists {
		return false, fmt.Errorf("file does not exist: %s", filePath)
	}
	return attrs.Hidden, nil
}

// CheckFileAccessibility verifies a statement file can actually be opened
// before it is handed to a worker, so access problems surface as one clear
// error instead of a mid-scan failure.
func CheckFileAccessibility(filePath string) error {
	cleanPath := filepath.Clean(filePath)
	attrs, err := GetFileAttributes(cleanPath)
	if err != nil {
		return err
	}
	if !attrs.Exists {
		return fmt.Errorf("file does not exist: %s", cleanPath)
	}
	if attrs.Size == 0 {
		return fmt.Errorf("file is empty: %s", cleanPath)
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cleanPath, err)
	}
	file.Close()
	return nil
}
