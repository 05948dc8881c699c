package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasNewerVersion(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"v1.0.0", "v1.1.0", true},
		{"1.2.0", "1.2.0", false},
		{"v1.3.0", "v1.2.9", false},
		{"dev", "v1.0.0", false},
		{"v1.0.0", "", false},
		{"v1.0.0", "latest", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasNewerVersion(tt.current, tt.latest), "%s -> %s", tt.current, tt.latest)
	}
}

func TestIsCompatible(t *testing.T) {
	assert.True(t, IsCompatible("v1.4.0", "1.0.2"))
	assert.False(t, IsCompatible("v1.4.0", "v2.0.0"))
	assert.True(t, IsCompatible("dev", "v2.0.0"))
}
