package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task represents a single item in the planner. DueDate is a calendar date
// in deadline.Layout (YYYY-MM-DD). Whether the task is overdue is derived at
// read time and never stored.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null" json:"categoryId"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	IsCompleted bool      `gorm:"default:false" json:"isCompleted"`
	DueDate     string    `gorm:"index;not null" json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
