package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Color is the palette entry picked for a category.
type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Icon is the emoji picked for a category.
type Icon struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Category groups tasks by area (work, health, study, etc.).
type Category struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Name       string    `gorm:"not null" json:"name"`
	IsEditable bool      `gorm:"not null" json:"isEditable"`
	Color      Color     `gorm:"embedded;embeddedPrefix:color_" json:"color"`
	Icon       Icon      `gorm:"embedded;embeddedPrefix:icon_" json:"icon"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
