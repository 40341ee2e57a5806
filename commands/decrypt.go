package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/uhppoted/uhppoted-sheets-tool/vault"
)

var DecryptCmd = Decrypt{
	encryptedAPIKeyFile: DEFAULT_ENCRYPTED_API_KEY,
	password:            "",
	file:                "",
	debug:               false,
}

type Decrypt struct {
	encryptedAPIKeyFile string
	password            string
	file                string
	debug               bool
}

func (cmd *Decrypt) Name() string {
	return "decrypt"
}

func (cmd *Decrypt) Description() string {
	return "Decrypts an encrypted API key file"
}

func (cmd *Decrypt) Usage() string {
	return "[--encrypted-api-key-file <file>] [--password <password>] [--file <file>]"
}

func (cmd *Decrypt) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] decrypt [options]\n", APP)
	fmt.Println()
	fmt.Println("  Decrypts an encrypted API key file and writes the API key to a file or to the console.")
	fmt.Println("  The encryption scheme has no integrity check, so an incorrect password is only detected")
	fmt.Println("  if it produces an invalid (non-ASCII) API key.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s decrypt --encrypted-api-key-file api.key.enc\n", APP)
	fmt.Println()
}

func (cmd *Decrypt) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("decrypt", flag.ExitOnError)

	flagset.StringVar(&cmd.encryptedAPIKeyFile, "encrypted-api-key-file", cmd.encryptedAPIKeyFile, "Encrypted API key file")
	flagset.StringVar(&cmd.password, "password", cmd.password, "Decryption password. Prompts for the password if not provided")
	flagset.StringVar(&cmd.file, "file", cmd.file, "File for the decrypted API key. Defaults to the console")

	return flagset
}

func (cmd *Decrypt) Execute(args ...any) error {
	_, options := unpack(args)

	cmd.debug = options.Debug

	if strings.TrimSpace(cmd.encryptedAPIKeyFile) == "" {
		return fmt.Errorf("--encrypted-api-key-file is a required option")
	}

	password := cmd.password
	if password == "" {
		var err error
		if password, err = readPassword("Password: ", false); err != nil {
			return err
		}
	}

	credentials := vault.Credentials{
		EncryptedAPIKeyFile: cmd.encryptedAPIKeyFile,
		Password:            password,
	}

	apiKey, err := credentials.APIToken()
	if err != nil {
		return err
	}

	if cmd.file == "" {
		fmt.Println(apiKey)
		return nil
	}

	if err := save(cmd.file, []byte(apiKey)); err != nil {
		return err
	}

	infof("Decrypted API key saved to %s", cmd.file)

	return nil
}
