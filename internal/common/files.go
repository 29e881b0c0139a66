package common

import (
	"path/filepath"
	"slices"
	"strings"
)

// IsAllowedResume reports whether filename carries one of
// AllowedResumeExtensions (case-insensitive).
func IsAllowedResume(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	return slices.Contains(AllowedResumeExtensions, ext)
}
