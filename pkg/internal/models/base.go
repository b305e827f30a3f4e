package models

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave moves timestamps given by callers into UTC, the clock gorm stamps with.
func (v *BaseModel) BeforeSave(tx *gorm.DB) error {
	if !v.CreatedAt.IsZero() {
		v.CreatedAt = v.CreatedAt.UTC()
	}
	if !v.UpdatedAt.IsZero() {
		v.UpdatedAt = v.UpdatedAt.UTC()
	}
	return nil
}
