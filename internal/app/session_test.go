package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArticleLink(t *testing.T) {
	tests := []struct {
		link   string
		wantID int64
		wantOK bool
	}{
		{"/articles/42", 42, true},
		{"articles/42", 42, true},
		{"/articles/42/comments/7", 42, true},
		{"/boards/golang", 0, false},
		{"/articles/abc", 0, false},
		{"/articles/-3", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		id, ok := parseArticleLink(tt.link)
		assert.Equal(t, tt.wantOK, ok, "link %q", tt.link)
		assert.Equal(t, tt.wantID, id, "link %q", tt.link)
	}
}
