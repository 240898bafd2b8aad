// Package cryptox implements the authenticated-encryption and content-digest
// primitives used by the vault: AES-256-GCM over whole byte payloads with a
// fresh random nonce per call, and SHA-256 digests for deduplication.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/mpfc/securebanking/internal/common"
)

// Algorithm identifies the AEAD scheme recorded next to every stored blob.
const Algorithm = "AES/GCM/NoPadding"

const (
	keyLen   = 32
	nonceLen = 12
)

// Cipher performs AEAD encryption and decryption under a single symmetric
// key supplied once at process start. It is stateless apart from the key and
// safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a raw 256-bit key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != keyLen {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrCrypto, keyLen, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	return &Cipher{aead: aead}, nil
}

// NewCipherFromBase64 decodes a base64-encoded 256-bit key, as it appears in
// configuration, and builds a Cipher from it. The decoded key material is
// wiped before returning; aes.NewCipher keeps its own copy in the expanded
// round keys.
func NewCipherFromBase64(encoded string) (*Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 key: %v", common.ErrCrypto, err)
	}
	defer common.WipeByteArray(key)
	return NewCipher(key)
}

// Encrypt seals plaintext and returns the random nonce and the ciphertext
// (which carries the GCM tag). The nonce is drawn from the system CSPRNG on
// every call; it is never derived or incremented, so nonce reuse under the
// fixed key cannot occur.
func (c *Cipher) Encrypt(plaintext []byte) (nonce, ciphertext []byte, err error) {
	nonce = common.GenerateRandByteArray(nonceLen)
	ciphertext = c.aead.Seal(nil, nonce, plaintext, nil)
	return nonce, ciphertext, nil
}

// Decrypt opens ciphertext sealed by Encrypt. A failed authentication-tag
// check returns common.ErrIntegrity and no plaintext.
func (c *Cipher) Decrypt(nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != nonceLen {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrCrypto, nonceLen, len(nonce))
	}
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIntegrity, err)
	}
	return plaintext, nil
}

// Digest returns the lower-case hex SHA-256 of data. Identical payloads
// always produce identical digests; the value is used as the natural key for
// duplicate detection.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
