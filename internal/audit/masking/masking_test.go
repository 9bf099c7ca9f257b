package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskReference(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  ", ""},
		{"abcd", "****"},
		{"12345678", "****5678"},
		{"4111 1111 1111 1234", "****1234"},
		{"ch_abcdefwxyz", "ch_****wxyz"},
		{"AUTH-00991827", "AUTH-****1827"},
		{"_leading", "****ding"},
		{"trailing_", "****ing_"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MaskReference(tc.in), tc.in)
	}
}

func TestMaskReferencePtr(t *testing.T) {
	assert.Nil(t, MaskReferencePtr(nil))

	empty := " "
	assert.Nil(t, MaskReferencePtr(&empty))

	ref := "pi_3NvA9x"
	masked := MaskReferencePtr(&ref)
	if assert.NotNil(t, masked) {
		assert.Equal(t, "pi_****vA9x", *masked)
	}
}
