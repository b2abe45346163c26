package categories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/models"
)

const maxNameLength = 64

// Category is the client-facing view of a category node.
type Category struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

// ListResult carries one level of the caller's category tree. TotalCount is
// the number of items the caller owns across ALL categories, not the number
// of categories returned; clients use it as a running inventory size.
type ListResult struct {
	Categories []Category `json:"categories"`
	TotalCount int64      `json:"totalCount"`
}

// Input carries the writable fields of a category.
type Input struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

// Service owns the category tree invariants: a parent must exist and belong
// to the same user as the node below it, and only the owner may read or
// modify a node. Existence is always checked before ownership.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Get returns the category when it exists and is owned by userID.
func (s *Service) Get(ctx context.Context, userID, categoryID uuid.UUID) (*Category, error) {
	c, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
	}
	if c.AuthorID != userID {
		return nil, fmt.Errorf("category %s is not yours: %w", categoryID, domain.ErrAccessDenied)
	}
	return view(c), nil
}

// List returns the caller's categories under parentID (roots when nil).
// A given parent is validated through Get first, so listing under a missing
// or foreign parent fails the same way fetching it would.
func (s *Service) List(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) (*ListResult, error) {
	if parentID != nil {
		if _, err := s.Get(ctx, userID, *parentID); err != nil {
			return nil, err
		}
	}

	cats, err := s.repo.ListByParent(ctx, userID, parentID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountItemsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Category, 0, len(cats))
	for i := range cats {
		out = append(out, *view(&cats[i]))
	}
	return &ListResult{Categories: out, TotalCount: total}, nil
}

// Create persists a new category owned by userID. The parent, when given,
// is validated through Get.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (*Category, error) {
	if in.ParentID != nil {
		if _, err := s.Get(ctx, userID, *in.ParentID); err != nil {
			return nil, err
		}
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}

	c := &models.Category{
		Name:     in.Name,
		ParentID: in.ParentID,
		AuthorID: userID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return view(c), nil
}

// Update overwrites name and parent. The new parent goes through the same
// validation as on create. Reparenting is not checked for cycles; a node can
// be pointed at its own descendant.
func (s *Service) Update(ctx context.Context, userID, categoryID uuid.UUID, in Input) error {
	c, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
	}
	if c.AuthorID != userID {
		return fmt.Errorf("category %s is not yours: %w", categoryID, domain.ErrAccessDenied)
	}
	if in.ParentID != nil {
		if _, err := s.Get(ctx, userID, *in.ParentID); err != nil {
			return err
		}
	}
	if err := validateName(in.Name); err != nil {
		return err
	}

	c.Name = in.Name
	c.ParentID = in.ParentID
	return s.repo.Save(ctx, c)
}

// Remove deletes the category. The database cascades the delete to items in
// the category and to its child categories.
func (s *Service) Remove(ctx context.Context, userID, categoryID uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
	}
	if c.AuthorID != userID {
		return fmt.Errorf("category %s is not yours: %w", categoryID, domain.ErrAccessDenied)
	}
	return s.repo.Delete(ctx, c)
}

func view(c *models.Category) *Category {
	return &Category{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("category name must not be empty: %w", domain.ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("category name exceeds %d characters: %w", maxNameLength, domain.ErrInvalidInput)
	}
	return nil
}
