package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateNetworkName validates a name used to label a network in reports and
// derive output file names. It rejects names that could escape the output
// directory.
func ValidateNetworkName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "network name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "network name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "network name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "network name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateReportID checks that id is a canonical UUID as produced for
// analysis runs.
func ValidateReportID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "report id cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid report id %q", id)
	}
	if parsed.String() != strings.ToLower(id) {
		return New(ErrCodeInvalidInput, "report id must be in canonical form: %q", id)
	}
	return nil
}
