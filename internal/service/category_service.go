package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

type CategoryInput struct {
	Name       string
	Color      model.Color
	Icon       model.Icon
	IsEditable *bool
}

type CategoryServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	Get(ctx context.Context, userID, categoryID uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, userID uuid.UUID, input CategoryInput) (*model.Category, error)
	Update(ctx context.Context, userID, categoryID uuid.UUID, input CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, userID, categoryID uuid.UUID) error
}

// CategoryService provides owner-scoped category management. Categories
// flagged as not editable cannot be changed or removed.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	categories, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, categoryID uuid.UUID) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, userID, categoryID)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, input CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	category := model.Category{
		UserID:     userID,
		Name:       name,
		Color:      input.Color,
		Icon:       input.Icon,
		IsEditable: true,
	}
	if input.IsEditable != nil {
		category.IsEditable = *input.IsEditable
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, categoryID uuid.UUID, input CategoryInput) (*model.Category, error) {
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsEditable {
		return nil, ErrForbidden
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.Color != (model.Color{}) {
		category.Color = input.Color
	}
	if input.Icon != (model.Icon{}) {
		category.Icon = input.Icon
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category and every task filed under it.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !category.IsEditable {
		return ErrForbidden
	}
	return notFound(s.repo.Delete(ctx, userID, categoryID), ErrCategoryNotFound)
}
