// Package vault encrypts and decrypts stored portal passwords with a
// single process-wide symmetric key loaded once at startup.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/krsbot-dev/krsbot/internal/common"
)

const keySize = 32

var (
	// ErrNoKey and ErrBadKey are startup configuration failures: the
	// process must not start without a usable key.
	ErrNoKey  = errors.New("encryption key is not configured")
	ErrBadKey = errors.New("encryption key must decode to 32 bytes")

	// ErrDecrypt covers bad encoding, truncated input, and GCM
	// authentication failures (wrong key or tampered data).
	ErrDecrypt = errors.New("decryption failed (wrong key or tampered data)")
)

// KeyFromConfig resolves the process-wide key from configuration: either a
// base64-encoded 32-byte key, or an argon2id derivation from a passphrase
// and salt. Exactly one source must be set.
func KeyFromConfig(encoded, passphrase, salt string) ([]byte, error) {
	switch {
	case encoded != "" && passphrase != "":
		return nil, errors.New("encryption key and passphrase are mutually exclusive")
	case encoded != "":
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
		}
		if len(key) != keySize {
			return nil, ErrBadKey
		}
		return key, nil
	case passphrase != "":
		if salt == "" {
			return nil, errors.New("encryption salt is required with a passphrase")
		}
		return DeriveKey([]byte(passphrase), []byte(salt)), nil
	default:
		return nil, ErrNoKey
	}
}

// DeriveKey stretches a passphrase into a 32-byte key with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// GenerateKey mints a fresh random key in the base64 form KeyFromConfig
// accepts, so operators can set one up without external tooling.
func GenerateKey() (string, error) {
	b, err := common.GenerateRandByteArray(keySize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Cipher performs AES-256-GCM encryption of password strings.
type Cipher struct {
	gcm cipher.AEAD
}

func New(key []byte) (*Cipher, error) {
	if len(key) != keySize {
		return nil, ErrBadKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{gcm: gcm}, nil
}

// Encrypt seals plaintext under a fresh random nonce and returns
// base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. All failure modes surface as ErrDecrypt; the
// caller decides whether that is fatal for its operation. The plaintext
// buffer is wiped once the value has been copied out.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	ns := c.gcm.NonceSize()
	if len(raw) < ns {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	nonce, ciphertext := raw[:ns], raw[ns:]
	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	defer common.WipeByteArray(plaintext)
	return string(plaintext), nil
}
