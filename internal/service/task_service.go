package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-planner/internal/deadline"
	"task-planner/internal/model"
	"task-planner/internal/repository"
	"task-planner/internal/tasklist"
)

// TaskInput represents data required to create or edit a task. Nil pointers
// leave the stored value unchanged on edit.
type TaskInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description *string
	DueDate     string
	IsCompleted *bool
}

// ViewQuery selects a filtered view of a user's tasks.
type ViewQuery struct {
	Filter tasklist.Filter
	Search string
	Limit  int
}

type TaskServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	View(ctx context.Context, userID uuid.UUID, q ViewQuery) (tasklist.Result, error)
	CategoryView(ctx context.Context, userID, categoryID uuid.UUID, q ViewQuery) (tasklist.Result, error)
	ListByStatus(ctx context.Context, userID uuid.UUID, completed bool) ([]model.Task, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)
	Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*model.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, input TaskInput) (*model.Task, error)
	ToggleStatus(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
	DueDate(ctx context.Context, userID, taskID uuid.UUID) (deadline.Date, error)
	Now() time.Time
}

// TaskService wraps task-related business logic. Due dates are interpreted in
// loc; views are evaluated against clock.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	loc          *time.Location
	clock        deadline.Clock
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, loc *time.Location, clock deadline.Clock) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = deadline.SystemClock{}
	}
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, loc: loc, clock: clock}
}

func (s *TaskService) Now() time.Time { return s.clock.Now().In(s.loc) }

func (s *TaskService) List(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) View(ctx context.Context, userID uuid.UUID, q ViewQuery) (tasklist.Result, error) {
	tasks, err := s.List(ctx, userID)
	if err != nil {
		return tasklist.Result{}, err
	}
	return s.apply(tasks, q), nil
}

// CategoryView runs the pipeline over the tasks of one category.
func (s *TaskService) CategoryView(ctx context.Context, userID, categoryID uuid.UUID, q ViewQuery) (tasklist.Result, error) {
	if _, err := s.categoryRepo.FindByID(ctx, userID, categoryID); err != nil {
		return tasklist.Result{}, notFound(err, ErrCategoryNotFound)
	}
	tasks, err := s.taskRepo.ListByCategory(ctx, userID, categoryID)
	if err != nil {
		return tasklist.Result{}, fmt.Errorf("list category tasks: %w", err)
	}
	return s.apply(tasks, q), nil
}

func (s *TaskService) apply(tasks []model.Task, q ViewQuery) tasklist.Result {
	return tasklist.Apply(tasks, tasklist.Query{
		Filter:   q.Filter,
		Search:   q.Search,
		Now:      s.Now(),
		Location: s.loc,
		Limit:    q.Limit,
	})
}

func (s *TaskService) ListByStatus(ctx context.Context, userID uuid.UUID, completed bool) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByStatus(ctx, userID, completed)
	if err != nil {
		return nil, fmt.Errorf("list tasks by status: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*model.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	due, err := s.normalizeDue(input.DueDate)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Name:       name,
		DueDate:    due,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, input TaskInput) (*model.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		task.Name = name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != "" {
		due, err := s.normalizeDue(input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}
	if input.CategoryID != uuid.Nil && input.CategoryID != task.CategoryID {
		if err := s.ensureCategory(ctx, userID, input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleStatus flips the completion flag of a task.
func (s *TaskService) ToggleStatus(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetCompleted(ctx, task, !task.IsCompleted); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	return notFound(s.taskRepo.Delete(ctx, userID, taskID), ErrTaskNotFound)
}

// DueDate returns the parsed due date of a task for countdowns.
func (s *TaskService) DueDate(ctx context.Context, userID, taskID uuid.UUID) (deadline.Date, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return deadline.Date{}, err
	}
	due, err := deadline.ParseDate(task.DueDate, s.loc)
	if err != nil {
		return deadline.Date{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return due, nil
}

func (s *TaskService) normalizeDue(raw string) (string, error) {
	due, err := deadline.Normalize(raw, s.loc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return due, nil
}

// ensureCategory checks that the category exists and belongs to the user.
func (s *TaskService) ensureCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if _, err := s.categoryRepo.FindByID(ctx, userID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}
	return nil
}
