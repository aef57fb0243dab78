package session

import (
	"strings"

	"github.com/example/kidvocab/pkg/models"
)

// IsValidSessionData reports whether a candidate record can be accepted as
// a session record. Required fields must be present and, when the record
// carries a version, its major component must match the expected one.
func IsValidSessionData(data models.SessionData, expectedVersion string) bool {
	if data.ActiveTab == "" || data.SelectedCategory == "" || data.LearningMode == "" {
		return false
	}
	if data.RememberedWords == nil || data.ForgottenWords == nil {
		return false
	}
	if data.LastUpdated <= 0 {
		return false
	}
	if data.Version != "" && majorVersion(data.Version) != majorVersion(expectedVersion) {
		return false
	}
	return true
}

// majorVersion returns everything before the first dot of a version string
func majorVersion(version string) string {
	if i := strings.Index(version, "."); i >= 0 {
		return version[:i]
	}
	return version
}
