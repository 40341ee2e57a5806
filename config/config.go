package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the defaults for the command line options, e.g.
//
//	url   = "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"
//	sheet = "Tasks"
//
//	[credentials]
//	encrypted-api-key-file = "/usr/local/etc/uhppoted/sheets/.google/api.key.enc"
type Config struct {
	URL         string      `toml:"url"`
	Sheet       string      `toml:"sheet"`
	Credentials Credentials `toml:"credentials"`
}

// Credentials deliberately has no password field.
type Credentials struct {
	APIKeyFile          string `toml:"api-key-file"`
	EncryptedAPIKeyFile string `toml:"encrypted-api-key-file"`
}

func NewConfig() *Config {
	return &Config{}
}

// Load decodes a TOML configuration file. Unrecognised keys are reported as an error.
func (c *Config) Load(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := []string{}
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return fmt.Errorf("unrecognised configuration keys %v", strings.Join(keys, ","))
	}

	return nil
}
