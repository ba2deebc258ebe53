package user

import (
	"time"

	"gorm.io/gorm"
)

type AgendaUser struct {
	ID           string         `gorm:"type:varchar(36);primaryKey"`
	FirstName    string         `gorm:"size:50;not null"`
	LastName     string         `gorm:"size:50;not null"`
	UserName     string         `gorm:"size:50;not null;uniqueIndex"`
	Email        string         `gorm:"size:254;not null;uniqueIndex"`
	PasswordHash string         `gorm:"size:100;not null"`
	LanguageCode *string        `gorm:"size:10"`
	VehicleID    *string        `gorm:"type:varchar(36);index"`
	Version      int64          `gorm:"not null;default:1"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (AgendaUser) TableName() string {
	return "agenda_users"
}

type Role struct {
	Name string `gorm:"size:20;primaryKey"`
}

// UserRole is the membership join between users and roles.
type UserRole struct {
	UserID   string `gorm:"type:varchar(36);primaryKey"`
	RoleName string `gorm:"size:20;primaryKey"`
}

type UserWithRoles struct {
	User  AgendaUser
	Roles []string
}

type ListFilter struct {
	Query string
}

type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"notblank,max=50"`
	LastName        string `json:"lastName" validate:"notblank,max=50"`
	UserName        string `json:"userName" validate:"notblank,max=50"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	LanguageCode    string `json:"languageCode" validate:"omitempty,max=10"`
}

type UpdateInput struct {
	FirstName    string `json:"firstName" validate:"notblank,max=50"`
	LastName     string `json:"lastName" validate:"notblank,max=50"`
	UserName     string `json:"userName" validate:"notblank,max=50"`
	Email        string `json:"email" validate:"required,email,max=254"`
	LanguageCode string `json:"languageCode" validate:"omitempty,max=10"`
	Version      *int64 `json:"version"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}
