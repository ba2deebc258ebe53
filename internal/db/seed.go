package db

import (
	"context"
	"errors"
	"fmt"

	"garden-planner-go/internal/auth"
	"garden-planner-go/internal/config"
	"garden-planner-go/internal/domain/appointmenttype"
	"garden-planner-go/internal/domain/common"
	"garden-planner-go/internal/domain/language"
	"garden-planner-go/internal/domain/user"
	"garden-planner-go/internal/domain/vehicle"
	"garden-planner-go/pkg/logger"
	"gorm.io/gorm"
)

// SeedResult names the bootstrap admin so callers can warm the id cache.
// AdminID is empty when no active account uses the configured admin email.
type SeedResult struct {
	AdminID    string
	AdminEmail string
}

var seedLanguages = []language.Language{
	{Code: "nl", Name: "Nederlands", IsSystemLanguage: true, IsActive: true},
	{Code: "en", Name: "English", IsSystemLanguage: true, IsActive: true},
}

var seedAppointmentTypes = []appointmenttype.AppointmentType{
	{Name: "Tuinonderhoud", Description: "Periodiek onderhoud van de tuin", Color: "#2e7d32"},
	{Name: "Snoeien", Description: "Hagen, struiken en bomen snoeien", Color: "#8d6e63"},
	{Name: "Aanleg", Description: "Nieuwe tuin of border aanleggen", Color: "#1565c0"},
	{Name: "Advies", Description: "Tuinadvies aan huis", Color: "#f9a825"},
}

var seedVehicles = []vehicle.Vehicle{
	{Brand: "Volkswagen", Model: "Transporter", LicensePlate: "1-ABC-123"},
	{Brand: "Ford", Model: "Transit", LicensePlate: "1-DEF-456"},
}

// Seed inserts fixed rows into each table that holds no rows at all,
// soft-deleted ones included. Running it again changes nothing.
func Seed(ctx context.Context, gormDB *gorm.DB, cfg config.SeedConfig, log logger.Logger) (SeedResult, error) {
	result := SeedResult{AdminEmail: cfg.AdminEmail}

	steps := []struct {
		name  string
		model any
		fill  func(tx *gorm.DB) (int, error)
	}{
		{"roles", &user.Role{}, seedRoles},
		{"languages", &language.Language{}, seedLanguageRows},
		{"appointment_types", &appointmenttype.AppointmentType{}, seedAppointmentTypeRows},
		{"vehicles", &vehicle.Vehicle{}, seedVehicleRows},
		{"agenda_users", &user.AgendaUser{}, func(tx *gorm.DB) (int, error) {
			return seedAdmin(tx, cfg)
		}},
	}

	for _, step := range steps {
		err := gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Unscoped().Model(step.model).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			inserted, err := step.fill(tx)
			if err != nil {
				return err
			}
			log.Info("seed: inserted rows", "table", step.name, "count", inserted)
			return nil
		})
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	var admin user.AgendaUser
	err := gormDB.WithContext(ctx).Where("email = ?", cfg.AdminEmail).Take(&admin).Error
	switch {
	case err == nil:
		result.AdminID = admin.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("seed: admin account not found", "email", cfg.AdminEmail)
	default:
		return result, fmt.Errorf("seed lookup admin: %w", err)
	}
	return result, nil
}

func seedRoles(tx *gorm.DB) (int, error) {
	roles := make([]user.Role, 0, len(auth.AllRoles))
	for _, role := range auth.AllRoles {
		roles = append(roles, user.Role{Name: string(role)})
	}
	return len(roles), tx.Create(&roles).Error
}

func seedLanguageRows(tx *gorm.DB) (int, error) {
	rows := append([]language.Language(nil), seedLanguages...)
	return len(rows), tx.Create(&rows).Error
}

func seedAppointmentTypeRows(tx *gorm.DB) (int, error) {
	rows := append([]appointmenttype.AppointmentType(nil), seedAppointmentTypes...)
	for i := range rows {
		rows[i].ID = common.NewID()
		rows[i].Version = 1
	}
	return len(rows), tx.Create(&rows).Error
}

func seedVehicleRows(tx *gorm.DB) (int, error) {
	rows := append([]vehicle.Vehicle(nil), seedVehicles...)
	for i := range rows {
		rows[i].ID = common.NewID()
		rows[i].Version = 1
	}
	return len(rows), tx.Create(&rows).Error
}

func seedAdmin(tx *gorm.DB, cfg config.SeedConfig) (int, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return 0, nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return 0, err
	}

	admin := user.AgendaUser{
		ID:           common.NewID(),
		FirstName:    "Admin",
		LastName:     "Garden Planner",
		UserName:     "admin",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Version:      1,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return 0, err
	}

	memberships := make([]user.UserRole, 0, len(auth.AllRoles))
	for _, role := range auth.AllRoles {
		memberships = append(memberships, user.UserRole{UserID: admin.ID, RoleName: string(role)})
	}
	if err := tx.Create(&memberships).Error; err != nil {
		return 0, err
	}
	return 1, nil
}
