package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "feature-branch", false},
		{"valid with spaces", "my review", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SessionName(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "SessionName(%q) error = %v", tt.input, err)
		})
	}
}

func TestCommentText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid text", "rename this variable", false},
		{"multiline", "first\nsecond", false},
		{"empty string", "", true},
		{"only whitespace", " \n\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CommentText(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "CommentText(%q) error = %v", tt.input, err)
		})
	}
}

func TestCommentID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid alphanumeric", "abc123", false},
		{"valid letters only", "abcdefgh", false},
		{"valid numbers only", "12345678", false},
		{"empty string", "", true},
		{"with spaces", "abc 123", true},
		{"with hyphen", "abc-123", true},
		{"uppercase letters", "ABC123", true},
		{"special chars", "abc!@#", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CommentID(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "CommentID(%q) error = %v", tt.input, err)
		})
	}
}
