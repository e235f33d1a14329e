package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/store"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNameRequired = errors.New("name is required")
)

type CategoryService struct {
	categories domain.CategoryStore
}

func NewCategoryService(categories domain.CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, c *domain.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrCategoryNameRequired
	}

	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrCategoryExists
		}
		return err
	}
	return nil
}

func (s *CategoryService) List(ctx context.Context, tenantID int64) ([]domain.Category, error) {
	return s.categories.List(ctx, tenantID)
}
