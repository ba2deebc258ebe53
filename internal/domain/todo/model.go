package todo

import (
	"time"

	"gorm.io/gorm"
)

type ToDo struct {
	ID            string         `gorm:"type:varchar(36);primaryKey"`
	AppointmentID string         `gorm:"type:varchar(36);index;not null"`
	Description   string         `gorm:"size:500;not null"`
	Done          bool           `gorm:"not null;default:false"`
	Version       int64          `gorm:"not null;default:1"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ToDo) TableName() string {
	return "todos"
}

type ListFilter struct {
	Query string
	// Done filters on completion when set.
	Done *bool
}

type CreateInput struct {
	Description string `json:"description" validate:"notblank,max=500"`
	Done        bool   `json:"done"`
}

type UpdateInput struct {
	Description string `json:"description" validate:"notblank,max=500"`
	Done        bool   `json:"done"`
	Version     *int64 `json:"version"`
}
