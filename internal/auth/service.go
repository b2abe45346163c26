package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/users"
)

// TokenIssuer mints a session token for a resolved user.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// User is the public profile returned alongside a fresh session token.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}

// AuthorizedUser is the login result.
type AuthorizedUser struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Service orchestrates a login: exchange the OAuth code, identify the
// provider account, resolve or create the local user, issue a session token.
// One pass, no retries.
type Service struct {
	oauth  OAuthClient
	users  *users.Service
	issuer TokenIssuer
}

func NewService(oauth OAuthClient, u *users.Service, issuer TokenIssuer) *Service {
	return &Service{oauth: oauth, users: u, issuer: issuer}
}

// Login exchanges the authorization code for a session token. A code the
// provider rejects fails with ErrInvalidInput; provider transport failures
// surface unclassified.
func (s *Service) Login(ctx context.Context, code string) (*AuthorizedUser, error) {
	accessToken, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, fmt.Errorf("code is incorrect: %w", domain.ErrInvalidInput)
	}

	profile, err := s.oauth.FetchCurrentUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.ResolveOrCreate(ctx, profile.Login, profile.Name, profile.AvatarURL)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthorizedUser{
		Token: token,
		User:  User{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL},
	}, nil
}
