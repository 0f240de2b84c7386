package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipList_Match(t *testing.T) {
	skip := NewSkipList([]string{"/api/v1/auth/", "health", " /public ", ""})

	tests := []struct {
		path string
		want bool
	}{
		{"/api/v1/auth", true},
		{"/api/v1/auth/login", true},
		{"/api/v1/authz", false},
		{"/health", true},
		{"/health/db", true},
		{"/healthz", false},
		{"/public/logo.png", true},
		{"/api/v1/leads", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, skip.Match(tt.path), tt.path)
	}
}

func TestSkipList_Empty(t *testing.T) {
	assert.False(t, NewSkipList(nil).Match("/anything"))
}
