package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"task-planner/internal/deadline"
	"task-planner/internal/repository"
)

// TaskSummary holds the counters shown on the home and profile screens.
type TaskSummary struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	Pending      int `json:"pending"`
	PendingToday int `json:"pendingToday"`
	Overdue      int `json:"overdue"`
	Skipped      int `json:"skipped"`
}

type SummaryServiceInterface interface {
	Summary(ctx context.Context, userID uuid.UUID) (TaskSummary, error)
}

// SummaryService counts a user's tasks by deadline state at call time.
type SummaryService struct {
	taskRepo *repository.TaskRepository
	loc      *time.Location
	clock    deadline.Clock
}

func NewSummaryService(taskRepo *repository.TaskRepository, loc *time.Location, clock deadline.Clock) *SummaryService {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = deadline.SystemClock{}
	}
	return &SummaryService{taskRepo: taskRepo, loc: loc, clock: clock}
}

func (s *SummaryService) Summary(ctx context.Context, userID uuid.UUID) (TaskSummary, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return TaskSummary{}, fmt.Errorf("list tasks: %w", err)
	}

	now := s.clock.Now().In(s.loc)
	summary := TaskSummary{Total: len(tasks)}
	for _, task := range tasks {
		if task.IsCompleted {
			summary.Completed++
		} else {
			summary.Pending++
		}

		due, err := deadline.ParseDate(task.DueDate, s.loc)
		if err != nil {
			summary.Skipped++
			continue
		}
		if deadline.IsOverdue(now, due, task.IsCompleted) {
			summary.Overdue++
		}
		if !task.IsCompleted && deadline.IsToday(now, due) {
			summary.PendingToday++
		}
	}
	return summary, nil
}
