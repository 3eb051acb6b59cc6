package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{"blank header", "   ", []string{"Unknown Device"}},
		{
			"desktop chrome",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			[]string{"Chrome on ", "Mac OS X"},
		},
		{
			"linux firefox",
			"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			[]string{"Firefox on ", "Linux"},
		},
		{
			"iphone safari uses the platform",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			[]string{" on iPhone"},
		},
		{"dispatch cli", "dispatchctl/1.4.0", []string{"dispatchctl on "}},
		{"version only", "/1.0", []string{"Unknown Device"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Label(tt.header)
			for _, part := range tt.want {
				assert.Contains(t, got, part)
			}
			assert.Equal(t, strings.TrimSpace(got), got)
			assert.NotContains(t, got, "  ")
		})
	}
}
