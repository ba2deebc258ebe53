package appointmenttype

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentType struct {
	ID          string         `gorm:"type:varchar(36);primaryKey"`
	Name        string         `gorm:"size:50;not null"`
	Description string         `gorm:"size:500;not null;default:''"`
	Color       string         `gorm:"size:7;not null;default:''"`
	Version     int64          `gorm:"not null;default:1"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

type ListFilter struct {
	Query string
}

type CreateInput struct {
	Name        string `json:"name" validate:"notblank,max=50"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor,len=7"`
}

type UpdateInput struct {
	Name        string `json:"name" validate:"notblank,max=50"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor,len=7"`
	Version     *int64 `json:"version"`
}
