package worksheet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenSourceWithAccessToken(t *testing.T) {
	source, err := tokenSource(context.Background(), " ya29.a0AfH6SMB\n")
	require.NoError(t, err)

	token, err := source.Token()
	require.NoError(t, err)

	assert.Equal(t, "ya29.a0AfH6SMB", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
}

func TestTokenSourceWithUserCredentials(t *testing.T) {
	var form url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		rq.ParseForm()
		form = rq.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{ "access_token": "ya29.refreshed", "token_type": "Bearer", "expires_in": 3600 }`))
	}))
	t.Cleanup(srv.Close)

	credentials := UserCredentials{
		Type:         AuthorizedUser,
		ClientID:     "12345.apps.googleusercontent.com",
		ClientSecret: "GOCSPX-secret",
		RefreshToken: "1//0refresh",
		TokenURI:     srv.URL + "/token",
	}

	s, err := credentials.JSON()
	require.NoError(t, err)

	source, err := tokenSource(context.Background(), s)
	require.NoError(t, err)

	token, err := source.Token()
	require.NoError(t, err)

	assert.Equal(t, "ya29.refreshed", token.AccessToken)
	assert.Equal(t, "refresh_token", form.Get("grant_type"))
	assert.Equal(t, "1//0refresh", form.Get("refresh_token"))
	assert.Equal(t, "12345.apps.googleusercontent.com", form.Get("client_id"))
}

func TestTokenSourceWithInvalidCredentials(t *testing.T) {
	tests := map[string]string{
		"malformed JSON":        `{ "type": `,
		"unknown type":          `{ "type": "external_account" }`,
		"missing refresh token": `{ "type": "authorized_user", "client_id": "12345.apps.googleusercontent.com" }`,
	}

	for k, v := range tests {
		_, err := tokenSource(context.Background(), v)
		assert.Error(t, err, k)
	}
}

func TestWithCredentials(t *testing.T) {
	opt, err := WithCredentials(context.Background(), "ya29.a0AfH6SMB")
	require.NoError(t, err)
	assert.NotNil(t, opt)

	_, err = WithCredentials(context.Background(), `{ "type": "external_account" }`)
	assert.Error(t, err)
}

func TestNewUserCredentials(t *testing.T) {
	config := oauth2.Config{
		ClientID:     "12345.apps.googleusercontent.com",
		ClientSecret: "GOCSPX-secret",
		Endpoint: oauth2.Endpoint{
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	credentials, err := NewUserCredentials(&config, &oauth2.Token{AccessToken: "ya29.a0", RefreshToken: "1//0refresh"})
	require.NoError(t, err)

	s, err := credentials.JSON()
	require.NoError(t, err)

	assert.JSONEq(t, `{
	  "type":          "authorized_user",
	  "client_id":     "12345.apps.googleusercontent.com",
	  "client_secret": "GOCSPX-secret",
	  "refresh_token": "1//0refresh",
	  "token_uri":     "https://oauth2.googleapis.com/token"
	}`, s)

	_, err = NewUserCredentials(&config, &oauth2.Token{AccessToken: "ya29.a0"})
	assert.Error(t, err)
}
