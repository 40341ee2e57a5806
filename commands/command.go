package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/uhppoted/uhppoted-sheets-tool/config"
	"github.com/uhppoted/uhppoted-sheets-tool/vault"
	"github.com/uhppoted/uhppoted-sheets-tool/worksheet"
)

const APP = "uhppoted-sheets-tool"

type Options struct {
	Config string
	Debug  bool
}

// command holds the options common to the commands that operate on a worksheet.
type command struct {
	url                 string
	sheet               string
	apiKey              string
	apiKeyFile          string
	encryptedAPIKeyFile string
	password            string
	debug               bool
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL")
	flagset.StringVar(&c.sheet, "sheet", c.sheet, "Worksheet name e.g. 'Tasks'")
	flagset.StringVar(&c.apiKey, "api-key", c.apiKey, "Plaintext API key (prefer --api-key-file or --encrypted-api-key-file)")
	flagset.StringVar(&c.apiKeyFile, "api-key-file", c.apiKeyFile, "File containing the plaintext API key")
	flagset.StringVar(&c.encryptedAPIKeyFile, "encrypted-api-key-file", c.encryptedAPIKeyFile, "File containing the encrypted API key")
	flagset.StringVar(&c.password, "password", c.password, "Password for the encrypted API key. Prompts for the password if not provided")

	return flagset
}

// configure applies the global options and fills in any worksheet options not set on the command
// line from the configuration file. A missing default configuration file is not an error.
func (c *command) configure(options *Options) error {
	c.debug = options.Debug

	conf := config.NewConfig()
	if options.Config != "" {
		if err := conf.Load(options.Config); err != nil {
			if options.Config != DEFAULT_CONFIG || !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("could not load configuration (%w)", err)
			}
		} else if c.debug {
			debugf("loaded configuration from %v", options.Config)
		}
	}

	if strings.TrimSpace(c.url) == "" {
		c.url = conf.URL
	}

	if strings.TrimSpace(c.sheet) == "" {
		c.sheet = conf.Sheet
	}

	if c.apiKey == "" && c.apiKeyFile == "" && c.encryptedAPIKeyFile == "" {
		c.apiKeyFile = conf.Credentials.APIKeyFile
		c.encryptedAPIKeyFile = conf.Credentials.EncryptedAPIKeyFile
	}

	return nil
}

func (c *command) validate() error {
	if strings.TrimSpace(c.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(c.sheet) == "" {
		return fmt.Errorf("--sheet is a required option")
	}

	if _, err := spreadsheetID(c.url); err != nil {
		return err
	}

	return nil
}

func (c *command) credentials() (vault.Credentials, error) {
	credentials := vault.Credentials{
		APIKey:              c.apiKey,
		APIKeyFile:          c.apiKeyFile,
		EncryptedAPIKeyFile: c.encryptedAPIKeyFile,
		Password:            c.password,
	}

	if credentials.Encrypted() && credentials.Password == "" {
		if password, err := readPassword("Password: ", false); err != nil {
			return credentials, err
		} else {
			credentials.Password = password
		}
	}

	return credentials, credentials.Validate()
}

// open authorises access to the spreadsheet and loads the worksheet.
func (c *command) open(ctx context.Context) (*worksheet.Worksheet, *worksheet.Google, error) {
	if err := c.validate(); err != nil {
		return nil, nil, err
	}

	spreadsheet, _ := spreadsheetID(c.url)

	if c.debug {
		debugf("Spreadsheet - ID:%s  sheet:%s", spreadsheet, c.sheet)
	}

	credentials, err := c.credentials()
	if err != nil {
		return nil, nil, err
	}

	token, err := credentials.APIToken()
	if err != nil {
		return nil, nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	auth, err := worksheet.WithCredentials(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := worksheet.NewGoogle(ctx, spreadsheet, auth)
	if err != nil {
		return nil, nil, err
	}

	w, err := worksheet.Open(ctx, google, c.sheet)
	if err != nil {
		return nil, nil, err
	}

	if c.debug {
		debugf("Worksheet - ID:%v  name:%s  columns:%v  rows:%v", w.ID(), w.Name(), w.NumColumns(), w.NumRows())
	}

	return w, google, nil
}

// unpack extracts the context and options passed to Execute.
func unpack(list []any) (context.Context, *Options) {
	ctx := context.Background()
	options := Options{}

	for _, v := range list {
		switch arg := v.(type) {
		case context.Context:
			ctx = arg
		case *Options:
			options = *arg
		}
	}

	return ctx, &options
}

func spreadsheetID(url string) (string, error) {
	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

// resolveColumn resolves a column reference: '#<n>' is a zero-based column index, anything else is a
// column title.
func resolveColumn(w *worksheet.Worksheet, ref string) (int, error) {
	if strings.HasPrefix(ref, "#") {
		index, err := strconv.Atoi(ref[1:])
		if err != nil {
			return -1, fmt.Errorf("invalid column index '%s'", ref)
		}

		if _, err := w.Column(index); err != nil {
			return -1, err
		}

		return index, nil
	}

	return w.ColumnIndex(ref)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}

func helpOptions(flagset *flag.FlagSet) {
	fmt.Println("  Options:")
	fmt.Println()

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-24s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Println("  Global options:")
	fmt.Println()
	fmt.Printf("    --%-24s %s\n", "config", "Configuration file path")
	fmt.Printf("    --%-24s %s\n", "debug", "Displays internal information for diagnosing errors")
}
