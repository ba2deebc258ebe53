package vehicle

import (
	"time"

	"gorm.io/gorm"
)

type Vehicle struct {
	ID           string         `gorm:"type:varchar(36);primaryKey"`
	Brand        string         `gorm:"size:50;not null"`
	Model        string         `gorm:"size:50;not null;default:''"`
	LicensePlate string         `gorm:"size:20;not null;uniqueIndex"`
	Version      int64          `gorm:"not null;default:1"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

type ListFilter struct {
	Query string
}

type CreateInput struct {
	Brand        string `json:"brand" validate:"notblank,max=50"`
	Model        string `json:"model" validate:"max=50"`
	LicensePlate string `json:"licensePlate" validate:"notblank,max=20"`
}

type UpdateInput struct {
	Brand        string `json:"brand" validate:"notblank,max=50"`
	Model        string `json:"model" validate:"max=50"`
	LicensePlate string `json:"licensePlate" validate:"notblank,max=20"`
	Version      *int64 `json:"version"`
}
