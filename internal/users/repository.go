package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/models"
)

// Repository defines persistence operations for users and their third-party
// connections.
type Repository interface {
	// GetConnectionByLogin returns the connection with its linked user,
	// or (nil, nil) when no connection exists for the login.
	GetConnectionByLogin(ctx context.Context, login string) (*models.GitHubConnection, error)
	// CreateWithConnection persists a new user and the connection binding
	// login to it as a single transaction.
	CreateWithConnection(ctx context.Context, u *models.User, login string) (*models.GitHubConnection, error)
	// GetByID returns the user, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// GormRepository implements Repository on a relational store.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetConnectionByLogin(ctx context.Context, login string) (*models.GitHubConnection, error) {
	var conn models.GitHubConnection
	err := r.db.WithContext(ctx).Preload("User").Where("login = ?", login).First(&conn).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *GormRepository) CreateWithConnection(ctx context.Context, u *models.User, login string) (*models.GitHubConnection, error) {
	conn := &models.GitHubConnection{Login: login}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		conn.UserID = u.ID
		conn.User = *u
		return tx.Create(conn).Error
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
