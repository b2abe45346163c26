package users

import (
	"context"

	"github.com/invtrack/invtrack/internal/models"
)

// Service encapsulates identity-store business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// ResolveOrCreate maps a provider login to a local user, creating the user
// and connection on first login. The two inserts happen inside one
// transaction so a failed connection write cannot leave an orphan user.
func (s *Service) ResolveOrCreate(ctx context.Context, login, displayName string, avatarURL *string) (*models.User, error) {
	conn, err := s.repo.GetConnectionByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if conn != nil {
		return &conn.User, nil
	}

	u := &models.User{
		Name:      displayName,
		AvatarURL: avatarURL,
	}
	conn, err = s.repo.CreateWithConnection(ctx, u, login)
	if err != nil {
		return nil, err
	}
	return &conn.User, nil
}

// GetByID returns the user with the given id, or nil when absent.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}
