package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"secret-share/internal/config"
	"secret-share/internal/store"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

// ErrProviderFailure 表示 OAuth 握手或拉取资料失败，一律按登录失败处理。
var ErrProviderFailure = errors.New("oauth provider failure")

// Profile 是第三方登录握手完成后拿到的最小化用户资料。
type Profile struct {
	Provider  string
	SubjectID string // 提供方分配的稳定主体标识
}

// OAuthClient wraps one provider's OAuth2 code flow and profile fetch.
type OAuthClient struct {
	provider    string
	conf        *oauth2.Config
	userInfoURL string
}

// NewGoogleClient builds the Google OAuth2 client.
func NewGoogleClient(cfg config.OAuthProviderConfig) *OAuthClient {
	return &OAuthClient{
		provider:    store.ProviderGoogle,
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// NewFacebookClient builds the Facebook OAuth2 client.
func NewFacebookClient(cfg config.OAuthProviderConfig) *OAuthClient {
	return &OAuthClient{
		provider:    store.ProviderFacebook,
		userInfoURL: "https://graph.facebook.com/me?fields=id",
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"public_profile"},
			Endpoint:     facebook.Endpoint,
		},
	}
}

// Provider returns the provider key ("google" / "facebook").
func (c *OAuthClient) Provider() string {
	return c.provider
}

// AuthCodeURL returns the provider consent page URL carrying our state.
func (c *OAuthClient) AuthCodeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// FetchProfile exchanges the callback code and fetches the subject id.
func (c *OAuthClient) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", ErrProviderFailure, err)
	}

	resp, err := c.conf.Client(ctx, token).Get(c.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile endpoint status %d", ErrProviderFailure, resp.StatusCode)
	}

	// Google userinfo 用 "sub"，Facebook graph 用 "id"
	var body struct {
		Sub string `json:"sub"`
		ID  string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrProviderFailure, err)
	}

	subject := body.Sub
	if subject == "" {
		subject = body.ID
	}
	if subject == "" {
		return nil, fmt.Errorf("%w: profile has no subject id", ErrProviderFailure)
	}

	return &Profile{Provider: c.provider, SubjectID: subject}, nil
}
