package appointment

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	ID                string         `gorm:"type:varchar(36);primaryKey"`
	UserID            string         `gorm:"type:varchar(36);index;not null"`
	AppointmentTypeID string         `gorm:"type:varchar(36);index;not null"`
	Title             string         `gorm:"size:100;not null"`
	Description       string         `gorm:"size:1000;not null;default:''"`
	Date              time.Time      `gorm:"not null;index"`
	AllDay            bool           `gorm:"not null;default:false"`
	IsApproved        bool           `gorm:"not null;default:false"`
	Version           int64          `gorm:"not null;default:1"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// Scope identifies the caller. All lifts the owner filter for staff.
type Scope struct {
	UserID string
	All    bool
}

// OwnerID is the owner filter to apply, "" when the caller sees everything.
func (s Scope) OwnerID() string {
	if s.All {
		return ""
	}
	return s.UserID
}

type ListFilter struct {
	OwnerID string
	Query   string
	From    *time.Time
	To      *time.Time
}

type CreateInput struct {
	AppointmentTypeID string    `json:"appointmentTypeId" validate:"notblank"`
	Title             string    `json:"title" validate:"notblank,max=100"`
	Description       string    `json:"description" validate:"max=1000"`
	Date              time.Time `json:"date" validate:"required"`
	AllDay            bool      `json:"allDay"`
	UserID            string    `json:"userId"`
}

type UpdateInput struct {
	AppointmentTypeID string    `json:"appointmentTypeId" validate:"notblank"`
	Title             string    `json:"title" validate:"notblank,max=100"`
	Description       string    `json:"description" validate:"max=1000"`
	Date              time.Time `json:"date" validate:"required"`
	AllDay            bool      `json:"allDay"`
	Version           *int64    `json:"version"`
}
