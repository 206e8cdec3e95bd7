package cpf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	assert.Equal(t, "11144477735", Strip("111.444.777-35"))
	assert.Equal(t, "5511999998888", Strip("+55 (11) 99999-8888"))
	assert.Equal(t, "", Strip("abc"))
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid plain", "11144477735", true},
		{"valid formatted", "111.444.777-35", true},
		{"repeated digits pass checksum but are rejected", "11111111111", false},
		{"wrong check digits", "12345678900", false},
		{"too short", "1114447773", false},
		{"too long", "111444777350", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}

func TestValidSecondCheckDigitWrong(t *testing.T) {
	// First verifier correct, second off by one.
	assert.False(t, Valid("11144477734"))
}
