// Package vault protects a spreadsheet service API token at rest.
//
// The key and IV are derived from an operator supplied password and a fixed application salt using
// PBKDF2-HMAC-SHA512 and the token is encrypted with AES-256-CBC. The scheme is deterministic for a
// given password and carries no integrity tag, so a wrong password is only detectable as a garbled
// (usually non-ASCII) token. It is kept as is for compatibility with existing encrypted key files.
//
// Passwords are encoded as ISO-8859-1, as the existing key files were. A password with characters
// outside Latin-1 is encoded as UTF-8 instead, and files encrypted with such a password can only be
// decrypted by this package.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/encoding/charmap"
)

const (
	iterations = 1000
	keySize    = 32
	blockSize  = aes.BlockSize
)

// Shared by all installations. Not secret.
var salt = []byte{0x46, 0xd5, 0xe7, 0x64, 0xb7, 0x5a, 0xee, 0xc0, 0xf9, 0xf3, 0x95, 0xb7, 0xd8, 0x49, 0x69, 0x6f}

var (
	ErrNotASCII          = errors.New("not an ASCII string")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

type Vault struct {
	key []byte
	iv  []byte
}

// New returns a Vault with the key and IV derived from the password.
func New(password string) *Vault {
	key, iv := DeriveKey(password)

	return &Vault{
		key: key,
		iv:  iv,
	}
}

// DeriveKey returns the AES-256 key and CBC initialization vector for a password. The same password
// always yields the same key and IV.
func DeriveKey(password string) ([]byte, []byte) {
	material := pbkdf2.Key(encode(password), salt, iterations, keySize+blockSize, sha512.New)

	return material[:keySize], material[keySize:]
}

// Encrypt pads and encrypts an ASCII token.
func Encrypt(password, token string) ([]byte, error) {
	return New(password).Encrypt(token)
}

// Decrypt decrypts and unpads an encrypted token.
func Decrypt(password string, ciphertext []byte) (string, error) {
	return New(password).Decrypt(ciphertext)
}

func (v *Vault) Encrypt(token string) ([]byte, error) {
	if !isASCII([]byte(token)) {
		return nil, fmt.Errorf("invalid API key (%w)", ErrNotASCII)
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, err
	}

	plaintext := pad([]byte(token))
	ciphertext := make([]byte, len(plaintext))

	cipher.NewCBCEncrypter(block, v.iv).CryptBlocks(ciphertext, plaintext)

	return ciphertext, nil
}

func (v *Vault) Decrypt(ciphertext []byte) (string, error) {
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return "", fmt.Errorf("%w: length %v is not a multiple of %v", ErrInvalidCiphertext, len(ciphertext), blockSize)
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))

	cipher.NewCBCDecrypter(block, v.iv).CryptBlocks(plaintext, ciphertext)

	token := unpad(plaintext)
	if !isASCII(token) {
		return "", fmt.Errorf("invalid API key - incorrect password? (%w)", ErrNotASCII)
	}

	return string(token), nil
}

// pad appends PKCS#7 padding, adding a full block if the input is already block aligned.
func pad(b []byte) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b), len(b)+n)

	copy(padded, b)
	for i := 0; i < n; i++ {
		padded = append(padded, byte(n))
	}

	return padded
}

// unpad strips as many trailing bytes as the value of the last byte. A count of zero or one longer
// than the buffer leaves nothing.
func unpad(b []byte) []byte {
	if len(b) == 0 {
		return b
	}

	n := int(b[len(b)-1])
	if n == 0 || n > len(b) {
		return b[:0]
	}

	return b[:len(b)-n]
}

// encode returns the ISO-8859-1 bytes of the password, falling back to UTF-8 for passwords with
// characters outside Latin-1.
func encode(password string) []byte {
	if b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(password)); err == nil {
		return b
	}

	return []byte(password)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7f {
			return false
		}
	}

	return true
}
