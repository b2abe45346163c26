package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/invtrack/invtrack/internal/config"
)

// Profile is the subset of the provider's user record the service needs.
type Profile struct {
	Login     string
	Name      string
	AvatarURL *string
}

// OAuthClient is the outbound surface of the identity provider: exchange an
// authorization code for an access token, then fetch the profile it grants.
type OAuthClient interface {
	// Exchange submits the code with the app credentials. A code the
	// provider rejects yields ("", nil); transport failures yield an error.
	Exchange(ctx context.Context, code string) (string, error)
	FetchCurrentUser(ctx context.Context, accessToken string) (*Profile, error)
}

const (
	githubTokenURL = "https://github.com/login/oauth/access_token"
	githubUserURL  = "https://api.github.com/user"
)

// GitHubClient implements OAuthClient against the GitHub OAuth endpoints.
type GitHubClient struct {
	cfg        config.GitHubConfig
	httpClient *http.Client

	// overridable in tests
	TokenURL string
	UserURL  string
}

func NewGitHubClient(cfg config.GitHubConfig) *GitHubClient {
	return &GitHubClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		TokenURL:   githubTokenURL,
		UserURL:    githubUserURL,
	}
}

func (g *GitHubClient) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", g.cfg.ClientID)
	form.Set("client_secret", g.cfg.ClientSecret)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(b))
	}

	// GitHub reports a bad code as a 200 with an error payload.
	var tr struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.Error != "" || tr.AccessToken == "" {
		return "", nil
	}
	return tr.AccessToken, nil
}

func (g *GitHubClient) FetchCurrentUser(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", g.cfg.AppName)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("user endpoint returned %d: %s", resp.StatusCode, string(b))
	}

	var gu struct {
		Login     string  `json:"login"`
		Name      string  `json:"name"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, err
	}
	if gu.Name == "" {
		// profiles without a display name fall back to the login
		gu.Name = gu.Login
	}
	return &Profile{Login: gu.Login, Name: gu.Name, AvatarURL: gu.AvatarURL}, nil
}
