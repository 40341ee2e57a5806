package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uhppoted/uhppoted-sheets-tool/vault"
)

var EncryptCmd = Encrypt{
	apiKeyFile: "",
	password:   "",
	file:       DEFAULT_ENCRYPTED_API_KEY,
	debug:      false,
}

type Encrypt struct {
	apiKeyFile string
	password   string
	file       string
	debug      bool
}

func (cmd *Encrypt) Name() string {
	return "encrypt"
}

func (cmd *Encrypt) Description() string {
	return "Encrypts an API key with a password and stores it to a local file"
}

func (cmd *Encrypt) Usage() string {
	return "[--api-key-file <file>] [--password <password>] [--file <file>]"
}

func (cmd *Encrypt) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] encrypt [options]\n", APP)
	fmt.Println()
	fmt.Println("  Encrypts an API key with a password and stores it to a local file. Prompts for the API key")
	fmt.Println("  and password if they are not provided on the command line.")
	fmt.Println()
	fmt.Println("  The API key is either a Google credentials JSON file ('authorized_user' or 'service_account') or")
	fmt.Println("  an OAuth2 access token. Access tokens expire after about an hour - use 'authorise' to store")
	fmt.Println("  credentials that remain valid.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s encrypt --api-key-file api.key --file api.key.enc\n", APP)
	fmt.Println()
}

func (cmd *Encrypt) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("encrypt", flag.ExitOnError)

	flagset.StringVar(&cmd.apiKeyFile, "api-key-file", cmd.apiKeyFile, "File containing the plaintext API key. Prompts for the API key if not provided")
	flagset.StringVar(&cmd.password, "password", cmd.password, "Encryption password. Prompts for the password if not provided")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Encrypted API key file")

	return flagset
}

func (cmd *Encrypt) Execute(args ...any) error {
	_, options := unpack(args)

	cmd.debug = options.Debug

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	// ... get API key and password
	apiKey, err := cmd.apiKey()
	if err != nil {
		return err
	}

	password := cmd.password
	if password == "" {
		if password, err = readPassword("Password: ", true); err != nil {
			return err
		}
	}

	// ... encrypt and verify
	encrypted, err := vault.Encrypt(password, apiKey)
	if err != nil {
		return err
	}

	if decrypted, err := vault.Decrypt(password, encrypted); err != nil {
		return fmt.Errorf("error verifying encrypted API key (%w)", err)
	} else if decrypted != apiKey {
		return fmt.Errorf("error verifying encrypted API key")
	}

	if cmd.debug {
		debugf("encrypted %v byte API key to %v bytes", len(apiKey), len(encrypted))
	}

	// ... save
	if err := save(cmd.file, encrypted); err != nil {
		return err
	}

	infof("Encrypted API key saved to %s", cmd.file)

	return nil
}

func (cmd *Encrypt) apiKey() (string, error) {
	if cmd.apiKeyFile != "" {
		b, err := os.ReadFile(cmd.apiKeyFile)
		if err != nil {
			return "", err
		}

		if apiKey := strings.TrimSpace(string(b)); apiKey != "" {
			return apiKey, nil
		}

		return "", fmt.Errorf("API key file %s is empty", cmd.apiKeyFile)
	}

	apiKey, err := readSecret("API key: ", "API key", false)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(apiKey) == "" {
		return "", fmt.Errorf("API key is empty")
	}

	return strings.TrimSpace(apiKey), nil
}

// save writes a file atomically with owner-only permissions.
func save(file string, b []byte) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}
