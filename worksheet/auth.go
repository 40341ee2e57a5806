package worksheet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const (
	AuthorizedUser = "authorized_user"
	ServiceAccount = "service_account"
)

// UserCredentials is a Google 'authorized_user' credential i.e. an OAuth2 client and the refresh token
// issued when the user authorised access. Unlike an access token it does not expire.
type UserCredentials struct {
	Type         string `json:"type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
	TokenURI     string `json:"token_uri,omitempty"`
}

// NewUserCredentials returns the long-lived credential for a token obtained with an
// offline access authorisation code exchange.
func NewUserCredentials(config *oauth2.Config, token *oauth2.Token) (*UserCredentials, error) {
	if token == nil || token.RefreshToken == "" {
		return nil, fmt.Errorf("authorisation did not return a refresh token")
	}

	return &UserCredentials{
		Type:         AuthorizedUser,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RefreshToken: token.RefreshToken,
		TokenURI:     config.Endpoint.TokenURL,
	}, nil
}

func (c UserCredentials) JSON() (string, error) {
	if b, err := json.Marshal(c); err != nil {
		return "", err
	} else {
		return string(b), nil
	}
}

// WithCredentials authorises requests with a decrypted API token. A JSON token is a Google credential
// ('authorized_user' or 'service_account') that is exchanged for access tokens as required, anything
// else is used as is as an OAuth2 bearer token.
func WithCredentials(ctx context.Context, token string) (option.ClientOption, error) {
	if source, err := tokenSource(ctx, token); err != nil {
		return nil, err
	} else {
		return option.WithTokenSource(source), nil
	}
}

func tokenSource(ctx context.Context, token string) (oauth2.TokenSource, error) {
	token = strings.TrimSpace(token)

	if !strings.HasPrefix(token, "{") {
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}), nil
	}

	var credentials UserCredentials
	if err := json.Unmarshal([]byte(token), &credentials); err != nil {
		return nil, fmt.Errorf("invalid Google credentials (%w)", err)
	}

	switch credentials.Type {
	case AuthorizedUser:
		if credentials.ClientID == "" || credentials.RefreshToken == "" {
			return nil, fmt.Errorf("invalid Google credentials - missing client ID or refresh token")
		}

		config := oauth2.Config{
			ClientID:     credentials.ClientID,
			ClientSecret: credentials.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{SHEETS, DRIVE},
		}

		if credentials.TokenURI != "" {
			config.Endpoint.TokenURL = credentials.TokenURI
		}

		return config.TokenSource(ctx, &oauth2.Token{RefreshToken: credentials.RefreshToken}), nil

	case ServiceAccount:
		config, err := google.JWTConfigFromJSON([]byte(token), SHEETS, DRIVE)
		if err != nil {
			return nil, fmt.Errorf("invalid Google credentials (%w)", err)
		}

		return config.TokenSource(ctx), nil

	default:
		return nil, fmt.Errorf("unsupported Google credentials type '%s'", credentials.Type)
	}
}
