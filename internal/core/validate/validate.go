// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// SessionName validates a review session name is non-empty after trimming
// whitespace.
func SessionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// SessionNameField returns a criterio validator for session names.
func SessionNameField(field, name string) error {
	return criterio.Run(field, name, SessionName)
}

// CommentText validates comment text is non-empty after trimming whitespace.
func CommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text is required")
	}
	return nil
}

// CommentTextField returns a criterio validator for comment text.
func CommentTextField(field, text string) error {
	return criterio.Run(field, text, CommentText)
}

// CommentID validates a comment identifier is non-empty lowercase
// alphanumeric, the form the store generates.
func CommentID(id string) error {
	if id == "" {
		return fmt.Errorf("comment id is required")
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return fmt.Errorf("comment id must be lowercase alphanumeric")
		}
	}
	return nil
}
