package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashString(""))
	assert.Len(t, HashString("maria@exemplo.com"), 64)
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("Maria@Exemplo.com ")
	assert.Len(t, fp, fingerprintLength)
	assert.Equal(t, fp, Fingerprint("maria@exemplo.com"))
	assert.NotEqual(t, fp, Fingerprint("joao@exemplo.com"))
	assert.Empty(t, Fingerprint("  "))
}
