package items

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/invtrack/invtrack/internal/categories"
	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/models"
)

const maxNameLength = 64

// Item is the client-facing view of an inventory item.
type Item struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Count      int       `json:"count"`
	AuthorID   uuid.UUID `json:"authorId"`
	CategoryID uuid.UUID `json:"categoryId"`
}

// ListResult carries a filtered item listing. TotalCount is the number of
// items the caller owns overall, independent of the category filter.
type ListResult struct {
	Items      []Item `json:"items"`
	TotalCount int64  `json:"totalCount"`
}

// Input carries the writable fields of an item.
type Input struct {
	Name       string    `json:"name"`
	Count      int       `json:"count"`
	CategoryID uuid.UUID `json:"categoryId"`
}

// Service owns item CRUD. Every operation that attaches an item to a
// category defers to the category service, so the "parent must exist and be
// yours" rule lives in exactly one place.
type Service struct {
	repo       Repository
	categories *categories.Service
}

func NewService(r Repository, c *categories.Service) *Service {
	return &Service{repo: r, categories: c}
}

// Get returns the item when it exists and is owned by userID.
func (s *Service) Get(ctx context.Context, userID, itemID uuid.UUID) (*Item, error) {
	it, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if it.AuthorID != userID {
		return nil, fmt.Errorf("item %s is not yours: %w", itemID, domain.ErrAccessDenied)
	}
	return view(it), nil
}

// List returns the caller's items, restricted to one category when
// categoryID is given. The category filter is validated through the category
// service first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) (*ListResult, error) {
	if categoryID != nil {
		if _, err := s.categories.Get(ctx, userID, *categoryID); err != nil {
			return nil, err
		}
	}

	its, err := s.repo.ListByAuthor(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(its))
	for i := range its {
		out = append(out, *view(&its[i]))
	}
	return &ListResult{Items: out, TotalCount: total}, nil
}

// Create persists a new item owned by userID in the given category. The
// category is probed for bare existence first, then checked for ownership,
// so a missing category reads as not-found while a foreign one is denied.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (*Item, error) {
	exists, err := s.repo.CategoryExists(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("category %s: %w", in.CategoryID, domain.ErrNotFound)
	}
	if _, err := s.categories.Get(ctx, userID, in.CategoryID); err != nil {
		return nil, err
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}

	it := &models.Item{
		Name:       in.Name,
		Count:      in.Count,
		CategoryID: in.CategoryID,
		AuthorID:   userID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return view(it), nil
}

// Update overwrites name, count and category. The target category is
// re-validated on every call, including moves back into the current one.
func (s *Service) Update(ctx context.Context, userID, itemID uuid.UUID, in Input) error {
	it, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if it.AuthorID != userID {
		return fmt.Errorf("item %s is not yours: %w", itemID, domain.ErrAccessDenied)
	}
	if _, err := s.categories.Get(ctx, userID, in.CategoryID); err != nil {
		return err
	}
	if err := validateName(in.Name); err != nil {
		return err
	}

	it.Name = in.Name
	it.Count = in.Count
	it.CategoryID = in.CategoryID
	return s.repo.Save(ctx, it)
}

// Remove deletes the item after the usual existence and ownership checks.
func (s *Service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	it, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if it.AuthorID != userID {
		return fmt.Errorf("item %s is not yours: %w", itemID, domain.ErrAccessDenied)
	}
	return s.repo.Delete(ctx, it)
}

func view(i *models.Item) *Item {
	return &Item{ID: i.ID, Name: i.Name, Count: i.Count, AuthorID: i.AuthorID, CategoryID: i.CategoryID}
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("item name must not be empty: %w", domain.ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("item name exceeds %d characters: %w", maxNameLength, domain.ErrInvalidInput)
	}
	return nil
}
