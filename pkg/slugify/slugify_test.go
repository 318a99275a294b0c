package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Electronics", "electronics"},
		{"Garden & Tools", "garden-tools"},
		{"  Brand  New!  Bike  ", "brand-new-bike"},
		{"Go Pro 11", "go-pro-11"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Make(tt.in), "slugify %q", tt.in)
	}
}
