package vault

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrInvalidCredentials = errors.New("must provide either an API key or an encrypted API key and password")

// Credentials identifies the source of the spreadsheet service API token. Exactly one of APIKey,
// APIKeyFile, Password+EncryptedAPIKey or Password+EncryptedAPIKeyFile may be set.
type Credentials struct {
	APIKey              string
	APIKeyFile          string
	Password            string
	EncryptedAPIKey     []byte
	EncryptedAPIKeyFile string
}

func (c Credentials) Validate() error {
	plaintext := 0
	encrypted := 0

	if c.APIKey != "" {
		plaintext++
	}

	if c.APIKeyFile != "" {
		plaintext++
	}

	if len(c.EncryptedAPIKey) > 0 {
		encrypted++
	}

	if c.EncryptedAPIKeyFile != "" {
		encrypted++
	}

	switch {
	case plaintext == 1 && encrypted == 0 && c.Password == "":
		return nil

	case plaintext == 0 && encrypted == 1 && c.Password != "":
		return nil

	case plaintext > 0 && (encrypted > 0 || c.Password != ""):
		return fmt.Errorf("%w - API key and encrypted API key/password are mutually exclusive", ErrInvalidCredentials)

	case plaintext > 1:
		return fmt.Errorf("%w - API key and API key file are mutually exclusive", ErrInvalidCredentials)

	case encrypted > 1:
		return fmt.Errorf("%w - encrypted API key and encrypted API key file are mutually exclusive", ErrInvalidCredentials)

	case encrypted == 1:
		return fmt.Errorf("%w - missing password", ErrInvalidCredentials)

	case c.Password != "":
		return fmt.Errorf("%w - missing encrypted API key", ErrInvalidCredentials)

	default:
		return ErrInvalidCredentials
	}
}

// Encrypted returns true if the credentials are an encrypted API key that requires a password.
func (c Credentials) Encrypted() bool {
	return len(c.EncryptedAPIKey) > 0 || c.EncryptedAPIKeyFile != ""
}

// APIToken validates the credentials and returns the plaintext API token, reading and decrypting
// the key files as required.
func (c Credentials) APIToken() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	switch {
	case c.APIKey != "":
		return c.APIKey, nil

	case c.APIKeyFile != "":
		b, err := os.ReadFile(c.APIKeyFile)
		if err != nil {
			return "", fmt.Errorf("error reading API key file (%w)", err)
		}

		return strings.TrimSpace(string(b)), nil

	case c.EncryptedAPIKeyFile != "":
		b, err := os.ReadFile(c.EncryptedAPIKeyFile)
		if err != nil {
			return "", fmt.Errorf("error reading encrypted API key file (%w)", err)
		}

		return Decrypt(c.Password, b)

	default:
		return Decrypt(c.Password, c.EncryptedAPIKey)
	}
}
