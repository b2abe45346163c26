package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/invtrack/invtrack/internal/config"
)

// Issuer mints and verifies the service's own session tokens. The token
// carries the user id in the "id" claim and is bound to a fixed issuer and
// audience.
type Issuer struct {
	cfg config.JWTConfig
}

func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{cfg: cfg}
}

// Issue creates a signed session token for the user.
func (i *Issuer) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID.String(),
		"iss": i.cfg.Issuer,
		"aud": i.cfg.Audience,
		"iat": now.Unix(),
		"exp": now.Add(i.cfg.TokenTTL).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(i.cfg.Key))
}

// Parse verifies signature, expiry, issuer and audience, and returns the
// user id carried by the token.
func (i *Issuer) Parse(raw string) (uuid.UUID, error) {
	tok, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(i.cfg.Key), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
	)
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	raw, ok = claims["id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("token has no id claim")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("bad id claim: %w", err)
	}
	return id, nil
}
