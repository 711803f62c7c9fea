package service

import (
	"context"

	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/repository"
	apperrors "github.com/resolvepro/complaint-service/pkg/util/errorutil"
)

// CategoryService exposes the category catalogue.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns every category ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("category.list", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}
