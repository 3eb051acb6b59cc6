package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.168.1.47", "192.168.1.0"},
		{"::ffff:10.1.2.3", "10.1.2.0"},
		{"2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"", "unknown"},
		{"not-an-ip", "invalid"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, AnonymizeIP(tc.in), tc.in)
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "d***@coldchain.io", MaskEmail("dispatch@coldchain.io"))
	assert.Equal(t, "***", MaskEmail("no-at-sign"))
	assert.Equal(t, "***", MaskEmail("@coldchain.io"))
}
