package language

import "time"

type Language struct {
	Code             string    `gorm:"size:10;primaryKey"`
	Name             string    `gorm:"size:50;not null"`
	IsSystemLanguage bool      `gorm:"not null;default:false"`
	IsActive         bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}
