package common

import "crypto/rand"

// GenerateRandByteArray returns size cryptographically random bytes.
func GenerateRandByteArray(size int) ([]byte, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used to remove sensitive data such as decrypted passwords from memory after
// use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
