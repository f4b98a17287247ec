package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuhnValid(t *testing.T) {
	valid := []string{
		"4532015112830366",
		"4111111111111111",
		"5555555555554444",
		"378282246310005",
	}
	for _, number := range valid {
		assert.True(t, luhnValid(number), "expected %s to pass", number)
	}

	invalid := []string{
		"4532015112830367",
		"4111111111111112",
		"1234567890123456",
	}
	for _, number := range invalid {
		assert.False(t, luhnValid(number), "expected %s to fail", number)
	}
}

func TestMaskAccount(t *testing.T) {
	assert.Equal(t, "************0366", maskAccount("card", "4532 0151 1283 0366"))
	assert.Equal(t, "******678", maskAccount("wallet", "0912345678"))
	assert.Equal(t, "****9012", maskAccount("bank", "AU123456789012"))
	// Short identifiers are masked entirely.
	assert.Equal(t, "****", maskAccount("other", "abcd"))
}

func TestValidateAccount(t *testing.T) {
	// Cards: length bounds and checksum.
	assert.Error(t, validateAccount("card", "123456789012"))
	assert.Error(t, validateAccount("card", "4532015112830367"))
	assert.NoError(t, validateAccount("card", "4532 0151 1283 0366"))

	// Wallets: digits only, 7 to 15.
	assert.Error(t, validateAccount("wallet", "123456"))
	assert.Error(t, validateAccount("wallet", "09123456a8"))
	assert.NoError(t, validateAccount("wallet", "0912345678"))

	// Bank accounts: alphanumeric, 8 to 34.
	assert.Error(t, validateAccount("bank", "AU12345"))
	assert.Error(t, validateAccount("bank", "AU-12345678"))
	assert.NoError(t, validateAccount("bank", "AU123456789012"))
}
