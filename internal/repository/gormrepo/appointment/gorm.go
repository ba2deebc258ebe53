package appointment

import (
	"context"
	"errors"

	"garden-planner-go/internal/db"
	appointmentdomain "garden-planner-go/internal/domain/appointment"
	tododomain "garden-planner-go/internal/domain/todo"
	"garden-planner-go/internal/repository/gormrepo"
	"gorm.io/gorm"
)

type GormRepository struct {
	base gormrepo.Base
}

func NewGorm(gormDB *gorm.DB, retry *db.RetryPolicy) *GormRepository {
	return &GormRepository{base: gormrepo.NewBase(gormDB, retry)}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(appointmentdomain.Repository) error) error {
	return r.base.InTx(ctx, "appointments.tx", func(tx gormrepo.Base) error {
		return fn(&GormRepository{base: tx})
	})
}

func (r *GormRepository) List(ctx context.Context, filter appointmentdomain.ListFilter) ([]appointmentdomain.Appointment, error) {
	items := make([]appointmentdomain.Appointment, 0)
	err := r.base.Do(ctx, "appointments.list", func(tx *gorm.DB) error {
		query := tx.Model(&appointmentdomain.Appointment{})
		if filter.OwnerID != "" {
			query = query.Where("user_id = ?", filter.OwnerID)
		}
		if filter.From != nil {
			query = query.Where("date >= ?", filter.From.UTC())
		}
		if filter.To != nil {
			query = query.Where("date <= ?", filter.To.UTC())
		}
		query = gormrepo.Search(query, filter.Query, "title", "description")
		return query.Order("date asc, title asc, id asc").Find(&items).Error
	})
	return items, err
}

func (r *GormRepository) GetByID(ctx context.Context, id, ownerID string) (*appointmentdomain.Appointment, error) {
	var item appointmentdomain.Appointment
	err := r.base.Do(ctx, "appointments.get", func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id)
		if ownerID != "" {
			query = query.Where("user_id = ?", ownerID)
		}
		return query.Take(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointmentdomain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.base.Do(ctx, "appointments.exists", func(tx *gorm.DB) error {
		return tx.Model(&appointmentdomain.Appointment{}).Where("id = ?", id).Count(&count).Error
	})
	return count > 0, err
}

func (r *GormRepository) Create(ctx context.Context, item *appointmentdomain.Appointment) error {
	return r.base.Do(ctx, "appointments.create", func(tx *gorm.DB) error {
		return tx.Create(item).Error
	})
}

func (r *GormRepository) Update(ctx context.Context, item *appointmentdomain.Appointment, expectedVersion int64) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "appointments.update", func(tx *gorm.DB) error {
		result := tx.Model(&appointmentdomain.Appointment{}).
			Where("id = ? AND version = ?", item.ID, expectedVersion).
			Updates(map[string]interface{}{
				"appointment_type_id": item.AppointmentTypeID,
				"title":               item.Title,
				"description":         item.Description,
				"date":                item.Date,
				"all_day":             item.AllDay,
				"is_approved":         item.IsApproved,
				"version":             gorm.Expr("version + 1"),
			})
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *GormRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "appointments.delete", func(tx *gorm.DB) error {
		result := tx.Delete(&appointmentdomain.Appointment{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *GormRepository) SoftDeleteToDos(ctx context.Context, appointmentID string) error {
	return r.base.Do(ctx, "appointments.delete_todos", func(tx *gorm.DB) error {
		return tx.Where("appointment_id = ?", appointmentID).Delete(&tododomain.ToDo{}).Error
	})
}
