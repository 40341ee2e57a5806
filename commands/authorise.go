package commands

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/uhppoted/uhppoted-sheets-tool/vault"
	"github.com/uhppoted/uhppoted-sheets-tool/worksheet"
)

var AuthoriseCmd = Authorise{
	credentials: DEFAULT_CREDENTIALS,
	password:    "",
	file:        DEFAULT_ENCRYPTED_API_KEY,
	debug:       false,
}

type Authorise struct {
	credentials string
	password    string
	file        string
	debug       bool
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises access to Google Sheets and stores the encrypted credentials to a local file"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file> [--password <password>] [--file <file>]"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --credentials <file>\n", APP)
	fmt.Println()
	fmt.Println("  Authorises access to Google Sheets with the OAuth2 client in the 'credentials.json' file downloaded")
	fmt.Println("  from the Google Cloud console. The refresh token returned by the authorisation is encrypted with")
	fmt.Println("  the password and stored as the encrypted API key file, for use with --encrypted-api-key-file.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s authorise --credentials \".google/credentials.json\" --file \".google/api.key.enc\"\n", APP)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("authorise", flag.ExitOnError)

	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the OAuth2 client 'credentials.json' file")
	flagset.StringVar(&cmd.password, "password", cmd.password, "Encryption password. Prompts for the password if not provided")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Encrypted API key file")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	ctx, options := unpack(args)

	cmd.debug = options.Debug

	// ... check parameters
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	// ... get OAuth2 configuration
	b, err := os.ReadFile(cmd.credentials)
	if err != nil {
		return err
	}

	config, err := google.ConfigFromJSON(b, worksheet.SHEETS, worksheet.DRIVE)
	if err != nil {
		return fmt.Errorf("invalid OAuth2 credentials file %s (%w)", cmd.credentials, err)
	}

	// ... authorise
	token, err := cmd.authorise(ctx, config)
	if err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	credentials, err := worksheet.NewUserCredentials(config, token)
	if err != nil {
		return err
	}

	apiKey, err := credentials.JSON()
	if err != nil {
		return err
	}

	// ... encrypt and save
	password := cmd.password
	if password == "" {
		if password, err = readPassword("Password: ", true); err != nil {
			return err
		}
	}

	encrypted, err := vault.Encrypt(password, apiKey)
	if err != nil {
		return err
	}

	if err := save(cmd.file, encrypted); err != nil {
		return err
	}

	infof("Authorised credentials saved to %s", cmd.file)

	return nil
}

// authorise runs the OAuth2 authorisation code flow with a loopback redirect and exchanges the
// authorisation code for a token.
func (cmd *Authorise) authorise(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	state := uuid.NewString()
	authorised := make(chan string, 1)
	srv := &http.Server{
		Handler: callback(state, authorised),
	}

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			warnf("%v", err)
		}
	}()

	defer srv.Shutdown(context.Background())

	config.RedirectURL = fmt.Sprintf("http://%v/", listener.Addr())
	url := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	if cmd.debug {
		debugf("redirect URL %v", config.RedirectURL)
	}

	// ... open authorisation page in browser
	if _, err := exec.Command(browser, url).CombinedOutput(); err != nil {
		fmt.Println()
		fmt.Println("  Could not open the authorisation page in your browser - please open the following URL manually:")
		fmt.Println()
		fmt.Printf("  %v\n", url)
		fmt.Println()
	}

	// ... wait for authorisation
	interrupt, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	select {
	case <-interrupt.Done():
		return nil, fmt.Errorf("cancelled")

	case code := <-authorised:
		return config.Exchange(ctx, code)
	}
}

// callback handles the OAuth2 redirect, forwarding the authorisation code for a matching state.
func callback(state string, authorised chan<- string) http.HandlerFunc {
	return func(w http.ResponseWriter, rq *http.Request) {
		if rq.FormValue("state") != state {
			http.Error(w, "Invalid authorisation state", http.StatusBadRequest)
			return
		}

		if reason := rq.FormValue("error"); reason != "" {
			http.Error(w, fmt.Sprintf("Authorisation refused (%v)", reason), http.StatusForbidden)
			return
		}

		code := rq.FormValue("code")
		if code == "" {
			http.Error(w, "Missing authorisation code", http.StatusBadRequest)
			return
		}

		select {
		case authorised <- code:
		default:
		}

		fmt.Fprintf(w, "%s is authorised - you can close this page\n", APP)
	}
}
