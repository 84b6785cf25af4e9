// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxListNameLen bounds list names so storage keys stay short.
const MaxListNameLen = 64

var listNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// TaskText validates that task text is non-empty after trimming whitespace.
func TaskText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}

// ListName accepts the empty default list or a short identifier.
func ListName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > MaxListNameLen {
		return fmt.Errorf("name %q is longer than %d characters", name, MaxListNameLen)
	}
	if !listNameRe.MatchString(name) {
		return fmt.Errorf("name %q may only contain letters, digits, '.', '_' and '-'", name)
	}
	return nil
}
