package appointmenttype

import (
	"context"
	"errors"

	"garden-planner-go/internal/db"
	typedomain "garden-planner-go/internal/domain/appointmenttype"
	"garden-planner-go/internal/repository/gormrepo"
	"gorm.io/gorm"
)

type GormRepository struct {
	base gormrepo.Base
}

func NewGorm(gormDB *gorm.DB, retry *db.RetryPolicy) *GormRepository {
	return &GormRepository{base: gormrepo.NewBase(gormDB, retry)}
}

func (r *GormRepository) List(ctx context.Context, filter typedomain.ListFilter) ([]typedomain.AppointmentType, error) {
	items := make([]typedomain.AppointmentType, 0)
	err := r.base.Do(ctx, "appointment_types.list", func(tx *gorm.DB) error {
		query := gormrepo.Search(tx.Model(&typedomain.AppointmentType{}), filter.Query, "name", "description")
		return query.Order("name asc, id asc").Find(&items).Error
	})
	return items, err
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*typedomain.AppointmentType, error) {
	var item typedomain.AppointmentType
	err := r.base.Do(ctx, "appointment_types.get", func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Take(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, typedomain.ErrAppointmentTypeNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.base.Do(ctx, "appointment_types.exists", func(tx *gorm.DB) error {
		return tx.Model(&typedomain.AppointmentType{}).Where("id = ?", id).Count(&count).Error
	})
	return count > 0, err
}

func (r *GormRepository) Create(ctx context.Context, item *typedomain.AppointmentType) error {
	return r.base.Do(ctx, "appointment_types.create", func(tx *gorm.DB) error {
		return tx.Create(item).Error
	})
}

func (r *GormRepository) Update(ctx context.Context, item *typedomain.AppointmentType, expectedVersion int64) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "appointment_types.update", func(tx *gorm.DB) error {
		result := tx.Model(&typedomain.AppointmentType{}).
			Where("id = ? AND version = ?", item.ID, expectedVersion).
			Updates(map[string]interface{}{
				"name":        item.Name,
				"description": item.Description,
				"color":       item.Color,
				"version":     gorm.Expr("version + 1"),
			})
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *GormRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "appointment_types.delete", func(tx *gorm.DB) error {
		result := tx.Delete(&typedomain.AppointmentType{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}
