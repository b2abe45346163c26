package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an application account. Users are only ever created through a
// third-party login; there is no local registration.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	AvatarURL *string   `gorm:"size:256" json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// GitHubConnection links a GitHub login name to a local user. The login is
// the natural key: one row per distinct GitHub account, written once at the
// first login and never mutated.
type GitHubConnection struct {
	Login     string    `gorm:"size:64;primaryKey" json:"login"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category is a node in a per-user forest. ParentID is nil for roots.
// Deleting a category cascades at the database level to its items and to its
// child categories.
type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:64;not null" json:"name"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parentId,omitempty"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"authorId"`
	Parent    *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User       `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Item lives in exactly one category owned by the same user.
type Item struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:64;not null" json:"name"`
	Count      int       `gorm:"not null" json:"count"`
	AuthorID   uuid.UUID `gorm:"type:uuid;index;not null" json:"authorId"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"categoryId"`
	Category   Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
