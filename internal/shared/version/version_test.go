package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "v1.2.3", Normalize("1.2.3"))
	assert.Equal(t, "v1.2.3", Normalize(" v1.2.3 "))
	assert.Equal(t, "", Normalize(""))
}

func TestString(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"dev", "dev"},
		{"", "dev"},
		{"1.4", "v1.4.0"},
		{"v2.0.1+build.7", "v2.0.1"},
		{"2.0.0-rc.1", "v2.0.0-rc.1"},
	}

	original := Version
	t.Cleanup(func() { Version = original })

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.want, String())
		})
	}
}
