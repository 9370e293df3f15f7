package util

import (
	"crypto/rand"
	"math/big"
)

const randomCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns a random lowercase alphanumeric string, used for
// seeded account suffixes and upload keys.
func RandomString(length int) string {
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomCharset))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			result[i] = randomCharset[0]
			continue
		}
		result[i] = randomCharset[n.Int64()]
	}
	return string(result)
}
